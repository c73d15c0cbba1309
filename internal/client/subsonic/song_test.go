package subsonic

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustDecodeJSON decodes a JSON document the way the client does.
func mustDecodeJSON(t *testing.T, document string) any {
	t.Helper()

	value, err := decodeJSON([]byte(document))
	require.NoError(t, err)

	return value
}

// TestDecodeSong_Full tests decoding a record with every field present.
func TestDecodeSong_Full(t *testing.T) {
	t.Parallel()

	value := mustDecodeJSON(t, `{
		"id": 42,
		"title": "Intro",
		"album": "First Light",
		"albumId": "7",
		"artist": "The Examples",
		"artistId": 3,
		"track": "1",
		"year": 2019,
		"genre": "Ambient",
		"coverArt": 7,
		"size": "10485760",
		"duration": 215,
		"path": "The Examples/First Light/01 - Intro.flac",
		"suffix": "flac",
		"bitRate": 1411
	}`)

	song, err := DecodeSong(value)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), song.ID)
	require.NotNil(t, song.Title)
	assert.Equal(t, "Intro", *song.Title)
	require.NotNil(t, song.Album)
	assert.Equal(t, "First Light", *song.Album)
	require.NotNil(t, song.AlbumID)
	assert.Equal(t, uint64(7), *song.AlbumID)
	require.NotNil(t, song.Artist)
	assert.Equal(t, "The Examples", *song.Artist)
	require.NotNil(t, song.ArtistID)
	assert.Equal(t, uint64(3), *song.ArtistID)
	require.NotNil(t, song.Track)
	assert.Equal(t, uint64(1), *song.Track)
	require.NotNil(t, song.Year)
	assert.Equal(t, uint64(2019), *song.Year)
	require.NotNil(t, song.Genre)
	assert.Equal(t, "Ambient", *song.Genre)
	require.NotNil(t, song.CoverArtID)
	assert.Equal(t, uint64(7), *song.CoverArtID)
	assert.Equal(t, uint64(10485760), song.Size)
	assert.Equal(t, uint64(215), song.Duration)
	assert.Equal(t, "The Examples/First Light/01 - Intro.flac", song.Path)
}

// TestDecodeSong_Minimal tests that absent and null optional fields decode to nil.
func TestDecodeSong_Minimal(t *testing.T) {
	t.Parallel()

	value := mustDecodeJSON(t, `{"id": "9", "size": 1, "duration": 0, "path": "a.mp3", "genre": null, "track": null}`)

	song, err := DecodeSong(value)
	require.NoError(t, err)

	assert.Equal(t, &Song{ID: 9, Size: 1, Duration: 0, Path: "a.mp3"}, song)
}

// TestDecodeSong_NumericWidening tests that every integer field accepts numbers and digit strings alike.
func TestDecodeSong_NumericWidening(t *testing.T) {
	t.Parallel()

	asNumbers := mustDecodeJSON(t,
		`{"id": 5, "albumId": 6, "artistId": 7, "track": 8, "year": 1999, "coverArt": 10, "size": 11, "duration": 12, "path": "p"}`)
	asStrings := mustDecodeJSON(t,
		`{"id": "5", "albumId": "6", "artistId": "7", "track": "8", "year": "1999", "coverArt": "10", "size": "11", "duration": "12", "path": "p"}`)

	fromNumbers, err := DecodeSong(asNumbers)
	require.NoError(t, err)

	fromStrings, err := DecodeSong(asStrings)
	require.NoError(t, err)

	assert.Equal(t, fromNumbers, fromStrings)
}

// TestDecodeSong_NativeFloats tests values decoded without UseNumber.
func TestDecodeSong_NativeFloats(t *testing.T) {
	t.Parallel()

	var value any
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "size": 2.4e2, "duration": 60.0, "path": "p"}`), &value))

	song, err := DecodeSong(value)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), song.ID)
	assert.Equal(t, uint64(240), song.Size)
	assert.Equal(t, uint64(60), song.Duration)
}

// TestDecodeSong_LargeID tests that IDs beyond float64 precision survive.
func TestDecodeSong_LargeID(t *testing.T) {
	t.Parallel()

	value := mustDecodeJSON(t, `{"id": 18446744073709551615, "size": 0, "duration": 0, "path": "p"}`)

	song, err := DecodeSong(value)
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), song.ID)
}

// TestDecodeSong_Errors tests per-field failures.
func TestDecodeSong_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		document      string
		expectedField string
		expectedCause error
	}{
		{
			name:          "missing id",
			document:      `{"size": 1, "duration": 1, "path": "p"}`,
			expectedField: "id",
			expectedCause: ErrFieldMissing,
		},
		{
			name:          "null id",
			document:      `{"id": null, "size": 1, "duration": 1, "path": "p"}`,
			expectedField: "id",
			expectedCause: ErrFieldMissing,
		},
		{
			name:          "missing size",
			document:      `{"id": 1, "duration": 1, "path": "p"}`,
			expectedField: "size",
			expectedCause: ErrFieldMissing,
		},
		{
			name:          "missing duration",
			document:      `{"id": 1, "size": 1, "path": "p"}`,
			expectedField: "duration",
			expectedCause: ErrFieldMissing,
		},
		{
			name:          "missing path",
			document:      `{"id": 1, "size": 1, "duration": 1}`,
			expectedField: "path",
			expectedCause: ErrFieldMissing,
		},
		{
			name:          "path of wrong type",
			document:      `{"id": 1, "size": 1, "duration": 1, "path": 5}`,
			expectedField: "path",
			expectedCause: ErrFieldType,
		},
		{
			name:          "id of wrong type",
			document:      `{"id": true, "size": 1, "duration": 1, "path": "p"}`,
			expectedField: "id",
			expectedCause: ErrFieldType,
		},
		{
			name:          "negative size",
			document:      `{"id": 1, "size": -1, "duration": 1, "path": "p"}`,
			expectedField: "size",
			expectedCause: ErrNotInteger,
		},
		{
			name:          "fractional duration",
			document:      `{"id": 1, "size": 1, "duration": 1.5, "path": "p"}`,
			expectedField: "duration",
			expectedCause: ErrNotInteger,
		},
		{
			name:          "present but malformed optional year",
			document:      `{"id": 1, "size": 1, "duration": 1, "path": "p", "year": "nineteen"}`,
			expectedField: "year",
			expectedCause: strconv.ErrSyntax,
		},
		{
			name:          "present but malformed optional title",
			document:      `{"id": 1, "size": 1, "duration": 1, "path": "p", "title": ["a"]}`,
			expectedField: "title",
			expectedCause: ErrFieldType,
		},
		{
			name:          "digit string overflow",
			document:      `{"id": "99999999999999999999", "size": 1, "duration": 1, "path": "p"}`,
			expectedField: "id",
			expectedCause: strconv.ErrRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			song, err := DecodeSong(mustDecodeJSON(t, tt.document))
			require.Error(t, err)
			assert.Nil(t, song)

			var fieldErr *FieldParseError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.expectedField, fieldErr.Field)
			assert.Equal(t, ErrorKindFieldParse, fieldErr.Kind())
			require.ErrorIs(t, err, tt.expectedCause)
		})
	}
}

// TestDecodeSong_IntParseCause tests that digit-string failures keep the strconv error.
func TestDecodeSong_IntParseCause(t *testing.T) {
	t.Parallel()

	_, err := DecodeSong(map[string]any{"id": "12a", "size": "1", "duration": "1", "path": "p"})
	require.Error(t, err)

	var intParseErr *IntParseError
	require.ErrorAs(t, err, &intParseErr)
	assert.Equal(t, "12a", intParseErr.Err.Num)
	assert.Equal(t, `bad field: id: failed to parse value: strconv.ParseUint: parsing "12a": invalid syntax`, err.Error())
}

// TestDecodeSong_ShapeMismatch tests non-object inputs.
func TestDecodeSong_ShapeMismatch(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, "song", json.Number("1"), []any{}, true} {
		song, err := DecodeSong(value)
		require.Error(t, err)
		assert.Nil(t, song)

		var jsonErr *JSONError
		require.ErrorAs(t, err, &jsonErr)
		assert.Contains(t, jsonErr.Message, "expected an object")
	}
}

// TestDecodeSongs tests that failures do not hide sibling records.
func TestDecodeSongs(t *testing.T) {
	t.Parallel()

	values, ok := mustDecodeJSON(t, `[
		{"id": 1, "size": 1, "duration": 1, "path": "a"},
		{"id": 2, "duration": 1, "path": "b"},
		"garbage",
		{"id": 4, "size": 1, "duration": 1, "path": "d"}
	]`).([]any)
	require.True(t, ok)

	songs, err := DecodeSongs(values)
	require.Len(t, songs, 2)
	assert.Equal(t, uint64(1), songs[0].ID)
	assert.Equal(t, uint64(4), songs[1].ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "song #1: bad field: size")
	assert.Contains(t, err.Error(), "song #2: error parsing JSON")

	var fieldErr *FieldParseError
	require.ErrorAs(t, err, &fieldErr)

	var jsonErr *JSONError
	require.ErrorAs(t, err, &jsonErr)

	songs, err = DecodeSongs(nil)
	require.NoError(t, err)
	assert.Empty(t, songs)
}

// TestSong_UnmarshalJSON tests decoding through encoding/json.
func TestSong_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var song Song
	require.NoError(t, json.Unmarshal([]byte(`{"id": "77", "title": "Outro", "size": 5, "duration": 6, "path": "x.flac"}`), &song))

	assert.Equal(t, uint64(77), song.ID)
	require.NotNil(t, song.Title)
	assert.Equal(t, "Outro", *song.Title)

	var songs []Song
	err := json.Unmarshal([]byte(`[{"id": 1, "size": 1, "duration": 1}]`), &songs)
	require.Error(t, err)

	var fieldErr *FieldParseError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "path", fieldErr.Field)
}
