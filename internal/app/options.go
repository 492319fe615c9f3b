package app

import (
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/config"
	"github.com/inkframe/doccore/internal/docsync"
	"github.com/inkframe/doccore/internal/hierarchy"
)

func chunkOptsFrom(cfg *config.Config) chunking.Options {
	return chunking.Options{
		MaxChunkSize: cfg.Chunking.MaxChunkSize,
		Overlap:      cfg.Chunking.Overlap,
	}
}

func hierOptsFrom(cfg *config.Config) hierarchy.Options {
	return hierarchy.Options{
		SimilarityThreshold:        cfg.Hierarchy.SimilarityThreshold,
		MinSectionSize:             cfg.Hierarchy.MinSectionSize,
		DocSummaryMaxSentences:     cfg.Hierarchy.DocSummaryMaxSentences,
		SectionSummaryMaxSentences: cfg.Hierarchy.SectionSummaryMaxSentences,
		MaxOutlineDepth:            cfg.Hierarchy.MaxOutlineDepth,
	}
}

func syncOptsFrom(cfg *config.Config) docsync.Options {
	opts := docsync.DefaultOptions()
	opts.Limit = cfg.Sync.QueryLimit
	opts.Chunk = chunkOptsFrom(cfg)
	opts.Hierarchy = hierOptsFrom(cfg)
	return opts
}
