// Package subsonic downloads songs from a Subsonic server into a local library.
// Files are laid out as artist/album/track, written through a .part file
// and tagged with the metadata, cover art and lyrics the server provides.
package subsonic
