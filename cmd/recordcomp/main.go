package main

import (
	"bytes"
	"os"

	"go.uber.org/zap"

	"github.com/iamNilotpal/recordcomp/config"
	"github.com/iamNilotpal/recordcomp/internal/core/domain"
	"github.com/iamNilotpal/recordcomp/internal/core/services/record"
	"github.com/iamNilotpal/recordcomp/pkg/errors"
	"github.com/iamNilotpal/recordcomp/pkg/logger"
)

func main() {
	logger := logger.New("recordcomp")
	defer logger.Sync()

	logger.Info("starting record compression demo")

	cfg := config.DefaultConfig()
	algorithm, err := cfg.Record.Algorithm()
	if err != nil {
		logger.Infow("invalid method", "error", err)
		os.Exit(1)
	}

	sender, err := record.InitWithOptions(
		algorithm, domain.DirectionCompress, record.Options{Logger: logger},
	)
	if err != nil {
		logError(logger, "create sender context error", err)
		os.Exit(1)
	}
	defer sender.Close()

	receiver, err := record.InitWithOptions(
		algorithm, domain.DirectionDecompress, record.Options{Logger: logger},
	)
	if err != nil {
		logError(logger, "create receiver context error", err)
		os.Exit(1)
	}
	defer receiver.Close()

	plain := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)

	compressed, err := sender.Compress(plain, cfg.Record.MaxRecordSize)
	if err != nil {
		logError(logger, "compress error", err)
		os.Exit(1)
	}

	restored, err := receiver.Decompress(compressed, cfg.Record.MaxPlainSize)
	if err != nil {
		logError(logger, "decompress error", err)
		os.Exit(1)
	}

	logger.Infow("round trip complete",
		"plain", len(plain),
		"compressed", len(compressed),
		"restored", len(restored),
		"match", bytes.Equal(plain, restored),
	)
}

func logError(logger *zap.SugaredLogger, msg string, err error) {
	if re := errors.AsRecordError(err); re != nil {
		logger.Infow(msg, "code", re.Code.String(), "operation", re.Operation, "error", re.Err)
		return
	}
	logger.Infow(msg, "error", err)
}
