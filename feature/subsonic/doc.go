// Package subsonic talks to a remote Subsonic-compatible music catalog.
//
// It provides a typed client for the handful of REST endpoints the
// synchronizer consumes (getIndexes, getPlaylists, getPlaylist,
// getMusicDirectory, getArtist) and a Walker that turns the catalog's
// index/directory structure into lazy sequences of tracks.
//
// # Transport
//
// HTTPClient issues requests through Fiber's client Agent with token
// authentication (md5 of password and a random salt) and JSON responses. A
// response whose status is "failed" surfaces as *APIError.
//
// # Walking
//
// Directory descent uses an explicit stack, issuing one getMusicDirectory
// request per directory that is expanded. Each call to Tracks starts a new
// traversal; a traversal cannot be resumed once abandoned.
//
//	w := subsonic.NewWalker(client)
//	for track, err := range w.Tracks(ctx, indexes) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
package subsonic
