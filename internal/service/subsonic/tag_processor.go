package subsonic

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/subsonic-grabber/internal/constants"
	"github.com/oshokin/subsonic-grabber/internal/logger"
)

// Tag keys of WriteTagsRequest.SongTags.
const (
	TagSongID      = "songID"
	TagTitle       = "title"
	TagAlbum       = "album"
	TagAlbumID     = "albumID"
	TagArtist      = "artist"
	TagArtistID    = "artistID"
	TagGenre       = "genre"
	TagTrackNumber = "trackNumber"
	TagYear        = "year"
)

// AudioFormat is the container format of a song file.
type AudioFormat uint8

const (
	// AudioFormatUnknown - tags are not written.
	AudioFormatUnknown AudioFormat = iota
	// AudioFormatFLAC - Vorbis comments.
	AudioFormatFLAC
	// AudioFormatMP3 - ID3v2.
	AudioFormatMP3
)

// String returns a human-readable representation of the AudioFormat.
func (f AudioFormat) String() string {
	switch f {
	case AudioFormatUnknown:
		return "unknown"
	case AudioFormatFLAC:
		return "flac"
	case AudioFormatMP3:
		return "mp3"
	default:
		return fmt.Sprintf("unknown: %d", f)
	}
}

// audioFormatFromPath picks the tag format from a file extension.
func audioFormatFromPath(songPath string) AudioFormat {
	switch strings.ToLower(filepath.Ext(songPath)) {
	case constants.ExtensionFLAC:
		return AudioFormatFLAC
	case constants.ExtensionMP3:
		return AudioFormatMP3
	default:
		return AudioFormatUnknown
	}
}

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// Image is an embeddable cover picture.
type Image struct {
	// Data contains the raw image bytes.
	Data []byte
	// MIMEType specifies the image format (e.g., "image/jpeg").
	MIMEType string
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// SongPath is the file path of the audio file.
	SongPath string
	// Format selects the tag flavor.
	Format AudioFormat
	// SongTags contains metadata keyed by the Tag* constants.
	SongTags map[string]string
	// Cover is the picture to embed; nil skips embedding.
	Cover *Image
	// Lyrics is the plain-text lyrics; empty skips the lyrics tag.
	Lyrics string
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

// extractFLACCommentResult contains the result of extracting FLAC comment metadata.
type extractFLACCommentResult struct {
	// Comment is the FLAC Vorbis comment metadata block.
	Comment *flacvorbis.MetaDataBlockVorbisComment
	// Index is the index of the comment block in the FLAC file metadata (-1 if not found).
	Index int
}

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// WriteTags writes metadata to audio files based on the provided request.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.SongPath == "" {
		return ErrEmptySongPath
	}

	switch req.Format {
	case AudioFormatFLAC:
		return tp.writeFLACTags(ctx, req)
	case AudioFormatMP3:
		return tp.writeMP3Tags(req)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
}

func (tp *TagProcessorImpl) writeFLACTags(ctx context.Context, req *WriteTagsRequest) error {
	f, err := parseFLACFile(req.SongPath)
	if err != nil {
		return err
	}

	commentResult, err := tp.extractFLACComment(f)
	if err != nil {
		return err
	}

	tag := commentResult.Comment
	if tag == nil {
		tag = flacvorbis.New()
	}

	if err = tp.addFLACTags(tag, req); err != nil {
		return err
	}

	tagMeta := tag.Marshal()
	if commentResult.Index >= 0 {
		f.Meta[commentResult.Index] = &tagMeta
	} else {
		f.Meta = append(f.Meta, &tagMeta)
	}

	tp.embedFLACCover(ctx, f, req.Cover)

	return f.Save(req.SongPath)
}

// parseFLACFile parses a FLAC file.
// go-flac indexes the audio frames without a length check and panics on a file that has none.
func parseFLACFile(songPath string) (f *flac.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("%w: %v", ErrMalformedFLAC, r)
		}
	}()

	return flac.ParseFile(filepath.Clean(songPath))
}

func (tp *TagProcessorImpl) extractFLACComment(f *flac.File) (*extractFLACCommentResult, error) {
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		comment, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, err
		}

		return &extractFLACCommentResult{
			Comment: comment,
			Index:   idx,
		}, nil
	}

	return &extractFLACCommentResult{
		Comment: nil,
		Index:   -1,
	}, nil
}

// addFLACTags sets the request tags, replacing every existing value of the same fields.
// Fields the request leaves empty keep what the file already has.
func (tp *TagProcessorImpl) addFLACTags(tag *flacvorbis.MetaDataBlockVorbisComment, req *WriteTagsRequest) error {
	flacTags := flacTagValues(req)

	replaced := make(map[string]struct{}, len(flacTags))

	for k, v := range flacTags {
		if v != "" {
			replaced[k] = struct{}{}
		}
	}

	// Vorbis field names are case-insensitive.
	tag.Comments = slices.DeleteFunc(tag.Comments, func(comment string) bool {
		name, _, _ := strings.Cut(comment, "=")
		_, ok := replaced[strings.ToUpper(name)]

		return ok
	})

	for k, v := range flacTags {
		if v == "" {
			continue
		}

		if err := tag.Add(k, v); err != nil {
			return err
		}
	}

	return nil
}

// flacTagValues maps request tags to Vorbis comment field names.
func flacTagValues(req *WriteTagsRequest) map[string]string {
	values := map[string]string{
		"TITLE":              req.SongTags[TagTitle],
		"ALBUM":              req.SongTags[TagAlbum],
		"ARTIST":             req.SongTags[TagArtist],
		"GENRE":              req.SongTags[TagGenre],
		"DATE":               req.SongTags[TagYear],
		"TRACKNUMBER":        req.SongTags[TagTrackNumber],
		"SUBSONIC_SONG_ID":   req.SongTags[TagSongID],
		"SUBSONIC_ALBUM_ID":  req.SongTags[TagAlbumID],
		"SUBSONIC_ARTIST_ID": req.SongTags[TagArtistID],
	}

	if lyrics := strings.TrimSpace(req.Lyrics); lyrics != "" {
		values["LYRICS"] = lyrics
	}

	return values
}

func (tp *TagProcessorImpl) embedFLACCover(ctx context.Context, f *flac.File, image *Image) {
	if image == nil {
		return
	}

	picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", image.Data, image.MIMEType)
	if err != nil {
		logger.Errorf(ctx, "Failed to embed image to FLAC: %v", err)

		return
	}

	pictureMeta := picture.Marshal()

	// An existing front cover is replaced in place, other pictures are kept.
	for idx, meta := range f.Meta {
		if meta.Type != flac.Picture {
			continue
		}

		existing, parseErr := flacpicture.ParseFromMetaDataBlock(*meta)
		if parseErr != nil || existing.PictureType != flacpicture.PictureTypeFrontCover {
			continue
		}

		f.Meta[idx] = &pictureMeta

		return
	}

	f.Meta = append(f.Meta, &pictureMeta)
}

func (tp *TagProcessorImpl) writeMP3Tags(req *WriteTagsRequest) error {
	// All frames are parsed, so the ones this tool does not set survive Save.
	//nolint:exhaustruct // Empty ParseFrames means every frame.
	tag, err := id3v2.Open(req.SongPath, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}

	defer tag.Close()

	tp.addMP3Tags(tag, req)

	// Picture and lyrics frames with the same type and description are replaced, not duplicated.
	if req.Cover != nil {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    req.Cover.MIMEType,
			PictureType: id3v2.PTFrontCover,
			Picture:     req.Cover.Data,
		})
	}

	return tag.Save()
}

func (tp *TagProcessorImpl) addMP3Tags(tag *id3v2.Tag, req *WriteTagsRequest) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	// Text frames are replaced one by one; empty values keep the existing frame.
	textFrames := []struct {
		value string
		set   func(string)
	}{
		{req.SongTags[TagTitle], tag.SetTitle},
		{req.SongTags[TagAlbum], tag.SetAlbum},
		{req.SongTags[TagArtist], tag.SetArtist},
		{req.SongTags[TagGenre], tag.SetGenre},
		{req.SongTags[TagYear], tag.SetYear},
		{req.SongTags[TagTrackNumber], func(trackNumber string) {
			tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), trackNumber)
		}},
	}

	for _, frame := range textFrames {
		if frame.value != "" {
			frame.set(frame.value)
		}
	}

	lyrics := strings.TrimSpace(req.Lyrics)
	if lyrics == "" {
		return
	}

	tag.AddUnsynchronisedLyricsFrame(
		//nolint:exhaustruct // ContentDescriptor not available in source data.
		id3v2.UnsynchronisedLyricsFrame{
			Encoding: id3v2.EncodingUTF8,
			Lyrics:   lyrics,
			// Field is required, so we just use lingua franca.
			Language: id3v2.EnglishISO6392Code,
		})
}
