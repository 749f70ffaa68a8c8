package request

// SetPresenceRequest is the request body for PUT /roster/{name}
type SetPresenceRequest struct {
	Present *bool `json:"present"`
}

// SyncRequest is the request body for reconciling the whole roster
type SyncRequest struct {
	Present []string `json:"present"`
}

// SettingsRequest is the request body for updating roster settings
type SettingsRequest struct {
	Closed *bool `json:"closed"`
}
