package subsonic

import (
	"errors"
	"fmt"
)

// Song represents a single track returned by the server.
// Optional fields are nil when the server omits them.
type Song struct {
	// ID is the unique song identifier.
	ID uint64
	// Title is the song name.
	Title *string
	// Album is the album name.
	Album *string
	// AlbumID is the identifier of the album containing the song.
	AlbumID *uint64
	// Artist is the artist name.
	Artist *string
	// ArtistID is the identifier of the artist.
	ArtistID *uint64
	// Track is the song's position on the album.
	Track *uint64
	// Year is the release year.
	Year *uint64
	// Genre is the genre name.
	Genre *string
	// CoverArtID is the identifier to pass to getCoverArt.
	CoverArtID *uint64
	// Size is the file size in bytes.
	Size uint64
	// Duration is the song length in seconds.
	Duration uint64
	// Path is the file path on the server, relative to the music folder.
	Path string
}

// DecodeSong builds a Song from one decoded JSON object (map[string]any).
// A missing or malformed field fails with a FieldParseError naming it;
// a value that is not an object fails with a JSONError.
func DecodeSong(value any) (*Song, error) {
	object, err := asObject(value)
	if err != nil {
		return nil, err
	}

	var song Song

	if song.ID, err = requiredUint(object, "id"); err != nil {
		return nil, err
	}

	if song.Title, err = optionalString(object, "title"); err != nil {
		return nil, err
	}

	if song.Album, err = optionalString(object, "album"); err != nil {
		return nil, err
	}

	if song.AlbumID, err = optionalUint(object, "albumId"); err != nil {
		return nil, err
	}

	if song.Artist, err = optionalString(object, "artist"); err != nil {
		return nil, err
	}

	if song.ArtistID, err = optionalUint(object, "artistId"); err != nil {
		return nil, err
	}

	if song.Track, err = optionalUint(object, "track"); err != nil {
		return nil, err
	}

	if song.Year, err = optionalUint(object, "year"); err != nil {
		return nil, err
	}

	if song.Genre, err = optionalString(object, "genre"); err != nil {
		return nil, err
	}

	if song.CoverArtID, err = optionalUint(object, "coverArt"); err != nil {
		return nil, err
	}

	if song.Size, err = requiredUint(object, "size"); err != nil {
		return nil, err
	}

	if song.Duration, err = requiredUint(object, "duration"); err != nil {
		return nil, err
	}

	if song.Path, err = requiredString(object, "path"); err != nil {
		return nil, err
	}

	return &song, nil
}

// DecodeSongs decodes every element independently.
// Songs that decode are returned even when others fail; the failures are joined into the error.
func DecodeSongs(values []any) ([]*Song, error) {
	var (
		songs = make([]*Song, 0, len(values))
		errs  []error
	)

	for i, value := range values {
		song, err := DecodeSong(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("song #%d: %w", i, err))

			continue
		}

		songs = append(songs, song)
	}

	return songs, errors.Join(errs...)
}

// clone returns a deep copy, so cached songs are never shared with callers.
func (s *Song) clone() *Song {
	clone := *s
	clone.Title = clonePtr(s.Title)
	clone.Album = clonePtr(s.Album)
	clone.AlbumID = clonePtr(s.AlbumID)
	clone.Artist = clonePtr(s.Artist)
	clone.ArtistID = clonePtr(s.ArtistID)
	clone.Track = clonePtr(s.Track)
	clone.Year = clonePtr(s.Year)
	clone.Genre = clonePtr(s.Genre)
	clone.CoverArtID = clonePtr(s.CoverArtID)

	return &clone
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}

	clone := *value

	return &clone
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Song) UnmarshalJSON(data []byte) error {
	value, err := decodeJSON(data)
	if err != nil {
		return err
	}

	song, err := DecodeSong(value)
	if err != nil {
		return err
	}

	*s = *song

	return nil
}
