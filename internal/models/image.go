package models

// ImageResolution lists the URLs a client should try, in order
type ImageResolution struct {
	Ref       ImageReference `json:"ref"`
	Absolute  bool           `json:"absolute"`
	Primary   string         `json:"primary"`
	Fallbacks []string       `json:"fallbacks"`
}

// ImageNextRequest asks for the candidate to try after a failed load
type ImageNextRequest struct {
	Ref      ImageReference `json:"ref"`
	Current  string         `json:"current"`
	Tried    []string       `json:"tried,omitempty"`
	FullName string         `json:"fullName,omitempty"`
}

// ImageNextResponse is the answer to ImageNextRequest. When Exhausted is
// true the client shows the placeholder built from Initials.
type ImageNextResponse struct {
	Next      string `json:"next,omitempty"`
	Exhausted bool   `json:"exhausted"`
	Initials  string `json:"initials,omitempty"`
}

// ImageAvailabilityResponse is the result of a server-side probe
type ImageAvailabilityResponse struct {
	Ref       ImageReference `json:"ref"`
	URL       string         `json:"url,omitempty"`
	Available bool           `json:"available"`
	Initials  string         `json:"initials,omitempty"`
}
