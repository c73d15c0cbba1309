package subsonic

const (
	// subsonicAPIRESTPath is the path prefix shared by all endpoints.
	subsonicAPIRESTPath = "rest"
	// subsonicAPIViewSuffix is appended to every endpoint name.
	subsonicAPIViewSuffix = ".view"

	// subsonicAPIPing checks connectivity and credentials.
	subsonicAPIPing = "ping"
	// subsonicAPIGetSong returns the metadata of one song.
	subsonicAPIGetSong = "getSong"
	// subsonicAPIGetRandomSongs returns random songs.
	subsonicAPIGetRandomSongs = "getRandomSongs"
	// subsonicAPIDownload streams the original file of a song.
	subsonicAPIDownload = "download"
	// subsonicAPIGetCoverArt returns a cover art image.
	subsonicAPIGetCoverArt = "getCoverArt"
	// subsonicAPIGetLyrics returns the lyrics matching an artist and a title.
	subsonicAPIGetLyrics = "getLyrics"
)

const (
	// randomSongsContainer is the payload key of a getRandomSongs response.
	randomSongsContainer = "randomSongs"
	// responseFormatJSON asks the server to answer in JSON instead of XML.
	responseFormatJSON = "json"
)

const (
	// DefaultSongsCacheSize is the number of song records kept in memory.
	// Sized for a few large album downloads.
	DefaultSongsCacheSize = 5000
	// maxRandomSongs is the largest page getRandomSongs accepts.
	maxRandomSongs = 500
)
