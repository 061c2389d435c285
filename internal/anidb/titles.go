package anidb

import (
	"bufio"
	"iter"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/danie1k/anime-metadata/internal/domain"
)

// TitleStore reads the anime-titles.dat dump that AniDB publishes daily.
// The dump is the only practical way to search AniDB without burning API
// quota, and at a few hundred thousand lines it is streamed rather than
// loaded up front.
type TitleStore struct {
	log  zerolog.Logger
	path string
}

func NewTitleStore(log zerolog.Logger, path string) *TitleStore {
	return &TitleStore{
		log:  log.With().Str("module", "anidb").Logger(),
		path: path,
	}
}

// All yields every title entry in file order. Lines are aid|type|lang|title;
// comment lines and lines that do not split cleanly are skipped. A read
// failure ends the sequence early and is logged, matching the best-effort
// nature of candidate search.
func (t *TitleStore) All() iter.Seq[domain.Candidate] {
	return func(yield func(domain.Candidate) bool) {
		f, err := os.Open(t.path)
		if err != nil {
			t.log.Error().Err(err).Str("path", t.path).Msg("failed to open titles dump")
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "#") {
				continue
			}

			fields := strings.SplitN(line, "|", 4)
			if len(fields) != 4 {
				continue
			}

			if !yield(domain.Candidate{ID: fields[0], Title: fields[3]}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			t.log.Error().Err(err).Str("path", t.path).Msg("failed to read titles dump")
		}
	}
}

// Verify checks that the dump exists before the store is put to use.
func (t *TitleStore) Verify() error {
	if _, err := os.Stat(t.path); err != nil {
		return errors.Wrapf(err, "anidb titles dump not found at %s", t.path)
	}
	return nil
}
