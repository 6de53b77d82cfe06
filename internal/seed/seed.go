// Package seed loads poems from a YAML file into a fresh store.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"gopkg.in/yaml.v3"
)

// File is the YAML document layout:
//
//	poems:
//	  - title: Dawn
//	    author: Basho
//	    content: |
//	      Light breaks.
//	      Birds sing.
type File struct {
	Poems []poem.CreateInput `yaml:"poems"`
}

// Creator is satisfied by the poem service.
type Creator interface {
	Create(ctx context.Context, in poem.CreateInput) (*poem.Poem, error)
}

func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Decode(fh)
}

// Apply creates every poem in order through c, so the usual validation and
// defaults apply. It stops at the first rejected entry.
func Apply(ctx context.Context, c Creator, f *File) (int, error) {
	for i, in := range f.Poems {
		if _, err := c.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed poem %d (%q): %w", i, in.Title, err)
		}
	}
	return len(f.Poems), nil
}
