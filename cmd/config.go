package cmd

import "time"

// Config carries every runtime setting the application reads from the
// environment. Optional fields keep sensible zero-value fallbacks.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	KafkaHost              string
	KafkaOrderChangedTopic string

	GeocoderURL string
	MediaDir    string

	OTPTTL       time.Duration
	OTPRetention time.Duration
	OTPDevMode   bool

	TrackingKeepalive time.Duration
	TrustThreshold    float64
	MaxPhotoBytes     int64
}
