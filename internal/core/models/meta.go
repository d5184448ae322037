package models

// RunMeta identifies a recorded run. Recordings carry it both in their file
// name and in their embedded metadata.
type RunMeta struct {
	Policy   string `json:"policy"`
	Vehicles int    `json:"vehicles"`
	Steps    int    `json:"steps"`
	Seed     uint64 `json:"seed"`
}
