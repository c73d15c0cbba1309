package subsonic

// Lyrics holds the plain-text lyrics of a song as returned by getLyrics.
type Lyrics struct {
	// Artist is the artist the server matched.
	Artist *string
	// Title is the song title the server matched.
	Title *string
	// Text is the lyrics text; nil when the server has none.
	Text *string
}

// DecodeLyrics builds Lyrics from a decoded "lyrics" object.
// Servers answer {} when nothing is found, which decodes to empty Lyrics.
func DecodeLyrics(value any) (*Lyrics, error) {
	object, err := asObject(value)
	if err != nil {
		return nil, err
	}

	var lyrics Lyrics

	if lyrics.Artist, err = optionalString(object, "artist"); err != nil {
		return nil, err
	}

	if lyrics.Title, err = optionalString(object, "title"); err != nil {
		return nil, err
	}

	if lyrics.Text, err = optionalString(object, "value"); err != nil {
		return nil, err
	}

	return &lyrics, nil
}

// HasText reports whether the lyrics carry any text.
func (l *Lyrics) HasText() bool {
	return l != nil && l.Text != nil && *l.Text != ""
}
