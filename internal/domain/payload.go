package domain

type PingPayload struct {
	RTT       *float64 `json:"rtt"`
	RawOutput string   `json:"rawOutput"`
}

type HTTPPayload struct {
	StatusCode    int               `json:"statusCode"`
	Headers       map[string]string `json:"headers"`
	ContentLength int               `json:"contentLength"`
}

type DNSPayload struct {
	RecordType        string            `json:"recordType"`
	Target            string            `json:"target"`
	ServersTested     int               `json:"serversTested"`
	SuccessfulQueries int               `json:"successfulQueries"`
	SuccessRate       float64           `json:"successRate"`
	AvgResponseTime   float64           `json:"avgResponseTime"`
	PerServerResults  []DNSServerResult `json:"perServerResults"`
	Summary           DNSSummary        `json:"summary"`
}

// DNSServerResult holds one server's outcome. ResponseTime is in milliseconds.
type DNSServerResult struct {
	Server       string   `json:"server"`
	Success      bool     `json:"success"`
	ResponseTime *float64 `json:"responseTime,omitempty"`
	Answers      []string `json:"answers,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type DNSSummary struct {
	FastestServer string `json:"fastestServer,omitempty"`
	SlowestServer string `json:"slowestServer,omitempty"`
}

type TraceroutePayload struct {
	RawOutput string `json:"rawOutput"`
}

type OoklaPayload struct {
	DownloadMbps float64                `json:"downloadMbps"`
	UploadMbps   float64                `json:"uploadMbps"`
	PingMs       float64                `json:"pingMs"`
	Server       string                 `json:"server"`
	ServerID     int                    `json:"serverId"`
	Raw          map[string]interface{} `json:"raw"`
}

type FastPayload struct {
	DownloadMbps    float64 `json:"downloadMbps"`
	UploadMbps      float64 `json:"uploadMbps"`
	TestDurationSec float64 `json:"testDurationSec"`
	URLsTested      int     `json:"urlsTested"`
	TokenPrefix     string  `json:"tokenPrefix"`
}

type IPerf3Payload struct {
	BandwidthMbps float64 `json:"bandwidthMbps"`
	Retransmits   int     `json:"retransmits"`
	JitterMs      float64 `json:"jitterMs"`
	PacketLossPct float64 `json:"packetLossPct"`
	Direction     string  `json:"direction"`
}
