package record_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/internal/core/services/record"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
)

func newPair(t *testing.T) (*record.Context, *record.Context) {
	t.Helper()

	sender, err := record.Init(domain.Deflate, domain.DirectionCompress)
	require.NoError(t, err)
	t.Cleanup(sender.Close)

	receiver, err := record.Init(domain.Deflate, domain.DirectionDecompress)
	require.NoError(t, err)
	t.Cleanup(receiver.Close)

	return sender, receiver
}

func TestRoundTrip(t *testing.T) {
	sender, receiver := newPair(t)

	plain := bytes.Repeat([]byte("hello world"), 100)
	require.Len(t, plain, 1100)

	compressed, err := sender.Compress(plain, 4096)
	require.NoError(t, err)
	require.Less(t, len(compressed), 1100)
	require.Less(t, len(compressed), 4096)

	restored, err := receiver.Decompress(compressed, 1200)
	require.NoError(t, err)
	require.Equal(t, plain, restored)
}

func TestMultiRecordRoundTrip(t *testing.T) {
	sender, receiver := newPair(t)

	records := [][]byte{
		[]byte("ClientHello"),
		bytes.Repeat([]byte("application data record "), 40),
		bytes.Repeat([]byte("application data record "), 40),
		[]byte("close_notify"),
	}

	var sizes []int
	for _, plain := range records {
		compressed, err := sender.Compress(plain, domain.CompressBound(len(plain)))
		require.NoError(t, err)
		sizes = append(sizes, len(compressed))

		restored, err := receiver.Decompress(compressed, len(plain))
		require.NoError(t, err)
		require.Equal(t, plain, restored)
	}

	// Records two and three are identical; the stream state carried across
	// records should make the repeat cheaper.
	require.Less(t, sizes[2], sizes[1])
}

func TestCompressCeilingEnforced(t *testing.T) {
	sender, _ := newPair(t)

	plain := make([]byte, 512)
	state := uint32(0x9e3779b9)
	for i := range plain {
		state = state*1664525 + 1013904223
		plain[i] = byte(state >> 24)
	}

	compressed, err := sender.Compress(plain, 8)
	require.Nil(t, compressed)
	require.True(t, errors.IsCode(err, errors.CodeCompressionFailed))
}

func TestDecompressInputPreCheck(t *testing.T) {
	_, receiver := newPair(t)

	const maxPlainSize = 1024
	oversized := make([]byte, maxPlainSize+domain.MaxCompressedSlack+1)

	out, err := receiver.Decompress(oversized, maxPlainSize)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))

	// The pre-check runs before any context inspection: even a nil context
	// rejects an oversized declaration as decompression failure, not as an
	// internal error.
	var nilCtx *record.Context
	out, err = nilCtx.Decompress(oversized, maxPlainSize)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
}

func TestDecompressionBomb(t *testing.T) {
	sender, receiver := newPair(t)

	plain := make([]byte, 4<<20)

	compressed, err := sender.Compress(plain, domain.CompressBound(len(plain)))
	require.NoError(t, err)

	// The declared size passes the pre-check; the growth loop itself must
	// stop the expansion.
	const maxPlainSize = 64 * 1024
	require.LessOrEqual(t, len(compressed), maxPlainSize+domain.MaxCompressedSlack)

	out, err := receiver.Decompress(compressed, maxPlainSize)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeDecompressionFailed))
}

func TestUnsupportedAlgorithm(t *testing.T) {
	// Construction still succeeds for an algorithm with no codec binding;
	// the failure surfaces on the first transform instead.
	ctx, err := record.Init(domain.Algorithm(42), domain.DirectionCompress)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	defer ctx.Close()

	out, err := ctx.Compress([]byte("hello"), 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeUnsupportedAlgorithm))

	ctx2, err := record.Init(domain.Algorithm(42), domain.DirectionDecompress)
	require.NoError(t, err)
	defer ctx2.Close()

	out, err = ctx2.Decompress([]byte{0x00}, 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeUnsupportedAlgorithm))
}

func TestNoCompressionContext(t *testing.T) {
	ctx, err := record.Init(domain.NoCompression, domain.DirectionCompress)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	defer ctx.Close()

	// Null-compressed records bypass this layer; routing one through it is
	// a caller contract violation.
	out, err := ctx.Compress([]byte("hello"), 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeInternal))

	out, err = ctx.Decompress([]byte{0x00}, 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestNilContext(t *testing.T) {
	var ctx *record.Context

	out, err := ctx.Compress([]byte("hello"), 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeInternal))

	out, err = ctx.Decompress([]byte{0x00}, 4096)
	require.Nil(t, out)
	require.True(t, errors.IsCode(err, errors.CodeInternal))

	require.NotPanics(t, ctx.Close)
}

func TestInitThenCloseImmediately(t *testing.T) {
	algorithms := []domain.Algorithm{domain.NoCompression, domain.Deflate, domain.Algorithm(42)}
	directions := []domain.Direction{domain.DirectionCompress, domain.DirectionDecompress}

	for _, algorithm := range algorithms {
		for _, direction := range directions {
			t.Run(fmt.Sprintf("%s/%s", algorithm, direction), func(t *testing.T) {
				ctx, err := record.Init(algorithm, direction)
				require.NoError(t, err)
				require.NotNil(t, ctx)
				require.Equal(t, algorithm, ctx.Algorithm())
				require.Equal(t, direction, ctx.Direction())
				require.NotPanics(t, ctx.Close)
			})
		}
	}
}

func TestContextIsolation(t *testing.T) {
	senderA, receiverA := newPair(t)
	senderB, receiverB := newPair(t)

	plainA := bytes.Repeat([]byte("connection A traffic "), 30)
	plainB := bytes.Repeat([]byte("connection B sends something different "), 30)

	// Interleave operations across the two connections; each pair's stream
	// state must stay its own.
	compressedA1, err := senderA.Compress(plainA, domain.CompressBound(len(plainA)))
	require.NoError(t, err)
	compressedB1, err := senderB.Compress(plainB, domain.CompressBound(len(plainB)))
	require.NoError(t, err)
	compressedA2, err := senderA.Compress(plainA, domain.CompressBound(len(plainA)))
	require.NoError(t, err)

	restored, err := receiverB.Decompress(compressedB1, len(plainB))
	require.NoError(t, err)
	require.Equal(t, plainB, restored)

	restored, err = receiverA.Decompress(compressedA1, len(plainA))
	require.NoError(t, err)
	require.Equal(t, plainA, restored)

	restored, err = receiverA.Decompress(compressedA2, len(plainA))
	require.NoError(t, err)
	require.Equal(t, plainA, restored)
}

type failingParams struct{}

func (failingParams) Params(domain.Algorithm) (*domain.CompressionParams, error) {
	return nil, fmt.Errorf("table unavailable")
}

func TestInitParamLookupFailure(t *testing.T) {
	ctx, err := record.InitWithOptions(
		domain.Deflate, domain.DirectionCompress,
		record.Options{Params: failingParams{}},
	)
	require.Nil(t, ctx)
	require.True(t, errors.IsCode(err, errors.CodeCodecInitFailed))
}

type badParams struct{}

func (badParams) Params(domain.Algorithm) (*domain.CompressionParams, error) {
	return &domain.CompressionParams{WindowBits: 99, MemLevel: 8, Level: 3}, nil
}

func TestInitCodecInitFailure(t *testing.T) {
	// Out-of-range tuning values reach the codec and are rejected by its
	// initializer; no partial context escapes.
	ctx, err := record.InitWithOptions(
		domain.Deflate, domain.DirectionCompress,
		record.Options{Params: badParams{}},
	)
	require.Nil(t, ctx)
	require.True(t, errors.IsCode(err, errors.CodeCodecInitFailed))
}

func TestOutputBuffersAreIndependent(t *testing.T) {
	sender, receiver := newPair(t)

	plain := bytes.Repeat([]byte("ownership "), 20)

	compressed, err := sender.Compress(plain, domain.CompressBound(len(plain)))
	require.NoError(t, err)

	restored, err := receiver.Decompress(compressed, len(plain))
	require.NoError(t, err)

	// Scribbling on returned buffers must not corrupt later records.
	for i := range compressed {
		compressed[i] = 0xAA
	}
	for i := range restored {
		restored[i] = 0x55
	}

	compressed2, err := sender.Compress(plain, domain.CompressBound(len(plain)))
	require.NoError(t, err)

	restored2, err := receiver.Decompress(compressed2, len(plain))
	require.NoError(t, err)
	require.Equal(t, plain, restored2)
}
