package app

import (
	"log/slog"
	"os"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

func NewLogger() logx.Logger {
	base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logx.NewSlogAdapter(base)
}
