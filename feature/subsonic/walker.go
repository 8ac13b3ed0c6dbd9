package subsonic

import (
	"context"
	"fmt"
	"iter"
)

// Walker produces lazy sequences of catalog entries.
type Walker struct {
	client Client
}

// NewWalker returns a walker over client.
func NewWalker(client Client) *Walker {
	return &Walker{client: client}
}

type frame struct {
	children []Child
	pos      int
}

// Tracks yields every non-directory entry reachable from the index, depth
// first and in server order. Index artists are expanded as directories. When
// indexes is nil, the index is requested from the server first.
//
// A remote failure is yielded once as the error and ends the sequence.
func (w *Walker) Tracks(ctx context.Context, indexes *Indexes) iter.Seq2[Child, error] {
	return func(yield func(Child, error) bool) {
		if indexes == nil {
			fetched, err := w.client.GetIndexes(ctx, 0)
			if err != nil {
				yield(Child{}, fmt.Errorf("getIndexes: %w", err))
				return
			}
			indexes = fetched
		}

		var roots []Child
		for _, idx := range indexes.Index {
			for _, artist := range idx.Artists {
				roots = append(roots, Child{ID: artist.ID, Title: artist.Name, IsDir: true})
			}
		}
		roots = append(roots, indexes.Child...)

		w.descend(ctx, roots, yield)
	}
}

// descend walks roots with an explicit stack so deep trees do not grow the
// call stack.
func (w *Walker) descend(ctx context.Context, roots []Child, yield func(Child, error) bool) {
	stack := []*frame{{children: roots}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.pos >= len(top.children) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.children[top.pos]
		top.pos++

		if !child.IsDir {
			if !yield(child, nil) {
				return
			}
			continue
		}

		dir, err := w.client.GetMusicDirectory(ctx, child.ID)
		if err != nil {
			yield(Child{}, fmt.Errorf("getMusicDirectory %s: %w", child.ID, err))
			return
		}
		stack = append(stack, &frame{children: dir.Child})
	}
}

// Artist expands an artist into its detail and albums. Albums that do not
// name an artist are credited to this one.
func (w *Walker) Artist(ctx context.Context, id ID) (*ArtistDetail, error) {
	artist, err := w.client.GetArtist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getArtist %s: %w", id, err)
	}
	for i := range artist.Album {
		if artist.Album[i].ArtistID == "" {
			artist.Album[i].ArtistID = id
		}
	}
	return artist, nil
}

// Entry is a playlist entry with its 1-based position.
type Entry struct {
	Order int
	Child Child
}

// PlaylistEntries yields the entries of a playlist with 1-based positions.
func PlaylistEntries(detail *PlaylistDetail) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if detail == nil {
			return
		}
		for i, child := range detail.Entry {
			if !yield(Entry{Order: i + 1, Child: child}) {
				return
			}
		}
	}
}
