package views

import "github.com/reviewguard/reviewguard-go/pkg"

// BulkRow is one scored row of a bulk upload, as returned in the preview.
type BulkRow struct {
	Text               string         `json:"text"`
	Rating             float64        `json:"rating"`
	Prediction         pkg.Prediction `json:"prediction"`
	Confidence         float64        `json:"confidence"`
	FakeProbability    float64        `json:"fake_probability"`
	GenuineProbability float64        `json:"genuine_probability"`
}

// BulkResult is the response of POST /bulk/upload. DownloadID keys the
// full result file on the server; the file itself is fetched out of band via
// direct URL navigation, never through the transport client.
type BulkResult struct {
	Total             int       `json:"total"`
	FakeCount         int       `json:"fake_count"`
	GenuineCount      int       `json:"genuine_count"`
	FakePercentage    float64   `json:"fake_percentage"`
	GenuinePercentage float64   `json:"genuine_percentage"`
	ResultsPreview    []BulkRow `json:"results_preview"`
	DownloadID        string    `json:"download_id"`
}
