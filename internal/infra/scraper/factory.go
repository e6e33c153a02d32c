package scraper

import (
	"log/slog"
	"net/http"

	"daily-brief/internal/usecase/digest"
)

// ReaderFactory builds the reader registry of a run.
type ReaderFactory struct {
	client *http.Client
	config Config
	logger *slog.Logger
}

func NewReaderFactory(client *http.Client, cfg Config, logger *slog.Logger) *ReaderFactory {
	if client == nil {
		client = &http.Client{}
	}
	return &ReaderFactory{client: client, config: cfg, logger: logger}
}

// CreateReaders returns one reader per source kind.
func (f *ReaderFactory) CreateReaders() map[digest.SourceKind]digest.Reader {
	return map[digest.SourceKind]digest.Reader{
		digest.SourceRSS:   NewRSSReader(f.client, f.config, f.logger),
		digest.SourceGDELT: NewGDELTReader(f.client, f.config, f.logger),
	}
}
