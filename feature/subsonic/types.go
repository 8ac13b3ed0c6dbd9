package subsonic

import (
	"bytes"
	"encoding/json"
	"fmt"

	"subdaap-sync/core/utils"
)

// ID is a remote identifier. Servers send identifiers either as JSON strings
// or as numbers; both decode to the same ID.
type ID string

// UnmarshalJSON accepts string and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*id = ID(utils.ToString(raw))
	return nil
}

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// List decodes either a JSON array or a single object into a slice. Older
// servers collapse one-element arrays into a bare object.
type List[T any] []T

// UnmarshalJSON accepts arrays, single objects and null.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	*l = List[T]{item}
	return nil
}

// APIError is an error reported by the remote server.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("subsonic error %d: %s", e.Code, e.Message)
}

// Child is a directory or a track in the remote catalog.
type Child struct {
	ID          ID      `json:"id"`
	Parent      ID      `json:"parent,omitempty"`
	IsDir       bool    `json:"isDir"`
	Title       string  `json:"title"`
	Album       string  `json:"album,omitempty"`
	Artist      string  `json:"artist,omitempty"`
	Track       *int    `json:"track,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	CoverArt    string  `json:"coverArt,omitempty"`
	Size        *int64  `json:"size,omitempty"`
	ContentType *string `json:"contentType,omitempty"`
	Suffix      *string `json:"suffix,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	BitRate     *int    `json:"bitRate,omitempty"`
	Path        *string `json:"path,omitempty"`
	AlbumID     ID      `json:"albumId,omitempty"`
	ArtistID    ID      `json:"artistId,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// IndexArtist is an entry of the folder-based index.
type IndexArtist struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Index groups index artists under a letter.
type Index struct {
	Name    string            `json:"name"`
	Artists List[IndexArtist] `json:"artist"`
}

// Indexes is the response of getIndexes.
type Indexes struct {
	// LastModified is the modification marker in milliseconds. Zero means the
	// server did not send one.
	LastModified int64       `json:"lastModified"`
	Index        List[Index] `json:"index"`
	Child        List[Child] `json:"child"`
}

// Playlist is an entry of getPlaylists.
type Playlist struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
	Owner     string `json:"owner,omitempty"`
}

// PlaylistDetail is the response of getPlaylist.
type PlaylistDetail struct {
	Playlist
	Entry List[Child] `json:"entry"`
}

// Directory is the response of getMusicDirectory.
type Directory struct {
	ID    ID          `json:"id"`
	Name  string      `json:"name"`
	Child List[Child] `json:"child"`
}

// Album is an ID3 album as listed by getArtist.
type Album struct {
	ID        ID      `json:"id"`
	Name      string  `json:"name"`
	Artist    string  `json:"artist,omitempty"`
	ArtistID  ID      `json:"artistId,omitempty"`
	CoverArt  string  `json:"coverArt,omitempty"`
	SongCount int     `json:"songCount"`
	Duration  int     `json:"duration"`
	Year      *int    `json:"year,omitempty"`
	Genre     *string `json:"genre,omitempty"`
}

// ArtistDetail is the response of getArtist.
type ArtistDetail struct {
	ID    ID          `json:"id"`
	Name  string      `json:"name"`
	Album List[Album] `json:"album"`
}

type playlistsBody struct {
	Playlist List[Playlist] `json:"playlist"`
}

type response struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Error     *APIError       `json:"error,omitempty"`
	Indexes   *Indexes        `json:"indexes,omitempty"`
	Playlists *playlistsBody  `json:"playlists,omitempty"`
	Playlist  *PlaylistDetail `json:"playlist,omitempty"`
	Directory *Directory      `json:"directory,omitempty"`
	Artist    *ArtistDetail   `json:"artist,omitempty"`
}

type envelope struct {
	Response response `json:"subsonic-response"`
}
