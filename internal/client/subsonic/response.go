package subsonic

const (
	// responseEnvelopeKey is the top-level key wrapping every JSON response.
	responseEnvelopeKey = "subsonic-response"

	// ResponseStatusOK marks a successful response.
	ResponseStatusOK = "ok"
	// ResponseStatusFailed marks a response carrying an error object.
	ResponseStatusFailed = "failed"
)

// Response is a successful Subsonic response envelope.
type Response struct {
	// Status is always ResponseStatusOK for a returned Response.
	Status string
	// Version is the protocol version the server speaks.
	Version string
	// ServerType is the server implementation name, when reported (OpenSubsonic).
	ServerType string

	payload map[string]any
}

// ParseResponse decodes a JSON response body.
// A failed response is returned as the decoded *APIError.
func ParseResponse(body []byte) (*Response, error) {
	document, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}

	root, err := asObject(document)
	if err != nil {
		return nil, err
	}

	rawEnvelope, ok := root[responseEnvelopeKey]
	if !ok {
		return nil, &JSONError{Message: "missing " + responseEnvelopeKey + " object"}
	}

	envelope, err := asObject(rawEnvelope)
	if err != nil {
		return nil, err
	}

	status, err := requiredString(envelope, "status")
	if err != nil {
		return nil, err
	}

	switch status {
	case ResponseStatusOK:
	case ResponseStatusFailed:
		rawError, hasError := envelope["error"]
		if !hasError {
			return nil, &FieldParseError{Field: "error", Err: ErrFieldMissing}
		}

		apiErr, decodeErr := DecodeAPIError(rawError)
		if decodeErr != nil {
			return nil, decodeErr
		}

		return nil, apiErr
	default:
		return nil, &ServerError{Message: "unexpected response status " + status}
	}

	response := &Response{
		Status:  status,
		payload: envelope,
	}

	if response.Version, err = requiredString(envelope, "version"); err != nil {
		return nil, err
	}

	if serverType, typeErr := optionalString(envelope, "type"); typeErr == nil && serverType != nil {
		response.ServerType = *serverType
	}

	return response, nil
}

// Song decodes the "song" object of a getSong response.
func (r *Response) Song() (*Song, error) {
	value, ok := r.payload["song"]
	if !ok {
		return nil, &FieldParseError{Field: "song", Err: ErrFieldMissing}
	}

	return DecodeSong(value)
}

// Songs decodes the "song" list nested under container,
// e.g. "randomSongs" or "songsByGenre". An empty container yields no songs.
func (r *Response) Songs(container string) ([]*Song, error) {
	value, ok := r.payload[container]
	if !ok {
		return nil, &FieldParseError{Field: container, Err: ErrFieldMissing}
	}

	object, err := asObject(value)
	if err != nil {
		return nil, err
	}

	rawSongs, ok := object["song"]
	if !ok || rawSongs == nil {
		return []*Song{}, nil
	}

	list, ok := rawSongs.([]any)
	if !ok {
		return nil, &JSONError{Message: "expected an array of songs, got " + jsonTypeName(rawSongs)}
	}

	return DecodeSongs(list)
}

// Lyrics decodes the "lyrics" object of a getLyrics response.
func (r *Response) Lyrics() (*Lyrics, error) {
	value, ok := r.payload["lyrics"]
	if !ok {
		return nil, &FieldParseError{Field: "lyrics", Err: ErrFieldMissing}
	}

	return DecodeLyrics(value)
}
