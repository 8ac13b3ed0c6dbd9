package synchronizer

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"subdaap-sync/feature/subsonic"
)

type fakeAlbum struct {
	id       string
	name     string
	coverArt string
	// creditedTo overrides the artist the album is listed under.
	creditedTo string
	tracks     []*subsonic.Child
}

type fakeArtist struct {
	id     string
	name   string
	albums []*fakeAlbum
}

// fakeRemote is an in-memory catalog laid out as artist/album/track
// directories.
type fakeRemote struct {
	mu           sync.Mutex
	lastModified int64
	artists      []*fakeArtist
	playlists    []*subsonic.PlaylistDetail
	errs         map[string]error
	calls        map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		lastModified: 1000,
		errs:         make(map[string]error),
		calls:        make(map[string]int),
	}
}

func (f *fakeRemote) bump() {
	f.lastModified += 1000
}

func (f *fakeRemote) artist(id string) *fakeArtist {
	for _, a := range f.artists {
		if a.id == id {
			return a
		}
	}
	a := &fakeArtist{id: id, name: "Artist " + id}
	f.artists = append(f.artists, a)
	return a
}

func (f *fakeRemote) album(artist *fakeArtist, id string) *fakeAlbum {
	for _, al := range artist.albums {
		if al.id == id {
			return al
		}
	}
	al := &fakeAlbum{id: id, name: "Album " + id, coverArt: "cover-" + id}
	artist.albums = append(artist.albums, al)
	return al
}

func (f *fakeRemote) addTrack(artistID, albumID, trackID, title string) *subsonic.Child {
	artist := f.artist(artistID)
	album := f.album(artist, albumID)
	n := len(album.tracks) + 1
	track := &subsonic.Child{
		ID:          subsonic.ID(trackID),
		Title:       title,
		Artist:      artist.name,
		Album:       album.name,
		ArtistID:    subsonic.ID(artistID),
		AlbumID:     subsonic.ID(albumID),
		CoverArt:    album.coverArt,
		Track:       ptr(n),
		Year:        ptr(1999),
		Genre:       ptr("Rock"),
		Duration:    ptr(200),
		BitRate:     ptr(320),
		Size:        ptr(int64(4_000_000)),
		ContentType: ptr("audio/mpeg"),
		Suffix:      ptr("mp3"),
		Path:        ptr(fmt.Sprintf("%s/%s/%s.mp3", artistID, albumID, trackID)),
	}
	album.tracks = append(album.tracks, track)
	return track
}

func (f *fakeRemote) track(id string) *subsonic.Child {
	for _, a := range f.artists {
		for _, al := range a.albums {
			for _, t := range al.tracks {
				if t.ID == subsonic.ID(id) {
					return t
				}
			}
		}
	}
	return nil
}

func (f *fakeRemote) removeTrack(id string) {
	for _, a := range f.artists {
		for _, al := range a.albums {
			al.tracks = slices.DeleteFunc(al.tracks, func(t *subsonic.Child) bool {
				return t.ID == subsonic.ID(id)
			})
		}
		a.albums = slices.DeleteFunc(a.albums, func(al *fakeAlbum) bool { return len(al.tracks) == 0 })
	}
	f.artists = slices.DeleteFunc(f.artists, func(a *fakeArtist) bool { return len(a.albums) == 0 })
}

func (f *fakeRemote) setPlaylist(id, name string, trackIDs ...string) {
	detail := &subsonic.PlaylistDetail{
		Playlist: subsonic.Playlist{ID: subsonic.ID(id), Name: name, SongCount: len(trackIDs)},
	}
	for _, tid := range trackIDs {
		if t := f.track(tid); t != nil {
			detail.Entry = append(detail.Entry, *t)
		} else {
			detail.Entry = append(detail.Entry, subsonic.Child{ID: subsonic.ID(tid)})
		}
	}
	for i, p := range f.playlists {
		if p.ID == detail.ID {
			f.playlists[i] = detail
			return
		}
	}
	f.playlists = append(f.playlists, detail)
}

func (f *fakeRemote) deletePlaylist(id string) {
	f.playlists = slices.DeleteFunc(f.playlists, func(p *subsonic.PlaylistDetail) bool {
		return p.ID == subsonic.ID(id)
	})
}

func (f *fakeRemote) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeRemote) GetIndexes(_ context.Context, since int64) (*subsonic.Indexes, error) {
	if err := f.enter("getIndexes"); err != nil {
		return nil, err
	}
	if since != 0 && since >= f.lastModified {
		return &subsonic.Indexes{}, nil
	}
	idx := subsonic.Index{Name: "A"}
	for _, a := range f.artists {
		idx.Artists = append(idx.Artists, subsonic.IndexArtist{ID: subsonic.ID(a.id), Name: a.name})
	}
	return &subsonic.Indexes{LastModified: f.lastModified, Index: subsonic.List[subsonic.Index]{idx}}, nil
}

func (f *fakeRemote) GetPlaylists(context.Context) ([]subsonic.Playlist, error) {
	if err := f.enter("getPlaylists"); err != nil {
		return nil, err
	}
	out := make([]subsonic.Playlist, 0, len(f.playlists))
	for _, p := range f.playlists {
		out = append(out, p.Playlist)
	}
	return out, nil
}

func (f *fakeRemote) GetPlaylist(_ context.Context, id subsonic.ID) (*subsonic.PlaylistDetail, error) {
	if err := f.enter("getPlaylist"); err != nil {
		return nil, err
	}
	for _, p := range f.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &subsonic.APIError{Code: 70, Message: "not found"}
}

func (f *fakeRemote) GetMusicDirectory(_ context.Context, id subsonic.ID) (*subsonic.Directory, error) {
	if err := f.enter("getMusicDirectory"); err != nil {
		return nil, err
	}
	for _, a := range f.artists {
		if subsonic.ID(a.id) == id {
			dir := &subsonic.Directory{ID: id, Name: a.name}
			for _, al := range a.albums {
				dir.Child = append(dir.Child, subsonic.Child{ID: subsonic.ID(al.id), Title: al.name, IsDir: true})
			}
			return dir, nil
		}
		for _, al := range a.albums {
			if subsonic.ID(al.id) == id {
				dir := &subsonic.Directory{ID: id, Name: al.name}
				for _, t := range al.tracks {
					dir.Child = append(dir.Child, *t)
				}
				return dir, nil
			}
		}
	}
	return nil, &subsonic.APIError{Code: 70, Message: "not found"}
}

func (f *fakeRemote) GetArtist(_ context.Context, id subsonic.ID) (*subsonic.ArtistDetail, error) {
	if err := f.enter("getArtist"); err != nil {
		return nil, err
	}
	for _, a := range f.artists {
		if subsonic.ID(a.id) != id {
			continue
		}
		detail := &subsonic.ArtistDetail{ID: id, Name: a.name}
		for _, al := range a.albums {
			credited := id
			if al.creditedTo != "" {
				credited = subsonic.ID(al.creditedTo)
			}
			detail.Album = append(detail.Album, subsonic.Album{
				ID:        subsonic.ID(al.id),
				Name:      al.name,
				Artist:    a.name,
				ArtistID:  credited,
				CoverArt:  al.coverArt,
				SongCount: len(al.tracks),
			})
		}
		return detail, nil
	}
	return nil, &subsonic.APIError{Code: 70, Message: "not found"}
}
