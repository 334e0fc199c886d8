package models

// PositionSource identifies which stage of the fallback chain produced a sample
type PositionSource string

const (
	SourceVendor  PositionSource = "vendor"  // vendor mapping API
	SourceBrowser PositionSource = "browser" // client-reported browser geolocation
	SourceDefault PositionSource = "default" // fixed fallback coordinate
)

// PositionSample represents one timestamped geolocation reading.
// Immutable once created; produced by the position resolver and consumed by
// the tracking buffer, the safety scorer and the time-slot aggregator.
type PositionSample struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Altitude  float64        `json:"altitude,omitempty"`
	Accuracy  float64        `json:"accuracy,omitempty"` // meters
	Speed     float64        `json:"speed,omitempty"`    // m/s
	Heading   float64        `json:"heading,omitempty"`  // degrees, 0 = North
	Timestamp int64          `json:"timestamp"`          // Unix timestamp in seconds
	Source    PositionSource `json:"source"`
}

// PositionReport is the payload a client posts with its own geolocation
// reading. Coordinates are pointers so that a legitimate 0 is distinguishable
// from an absent field.
type PositionReport struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Altitude  float64  `json:"altitude"`
	Accuracy  float64  `json:"accuracy"`
	Speed     float64  `json:"speed"`
	Heading   float64  `json:"heading"`
	Timestamp int64    `json:"timestamp"`
}
