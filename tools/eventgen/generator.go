package main

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// signatureCatalog holds sample IDS signatures, at least one per taxonomy rule
// plus a few that fall through to the fallback category
var signatureCatalog = []string{
	"MALWARE-CNC Win.Trojan.Jadtre variant outbound connection",
	"MALWARE-CNC User-Agent known malicious user-agent string",
	"MALWARE-CNC Andr.Trojan.Agent outbound beacon",
	"EXPLOIT Microsoft Windows Win32k privilege escalation attempt",
	"EXPLOIT Oracle Java JRE remote code execution attempt",
	"EXPLOIT Oracle WebLogic deserialization attempt",
	"EXPLOIT Oracle 9i TNS listener overflow",
	"EXPLOIT Microsoft IIS WebDAV buffer overflow",
	"EXPLOIT generic shellcode detected",
	"NETBIOS DCERPC NCACN-IP-TCP srvsvc NetrPathCanonicalize overflow",
	"NETBIOS SMB-DS IPC$ unicode share access",
	"NETBIOS SMB repeated logon failure",
	"INDICATOR-COMPROMISE MySQL user enumeration",
	"INDICATOR-COMPROMISE suspicious DNS lookup",
	"SERVER-WEBAPP Apache Struts RCE attempt",
	"OS-WINDOWS Microsoft Windows elevation of privilege attempt",
	"SERVER-OTHER Samba buffer overflow attempt",
	"POLICY-OTHER Remote desktop session detected",
	"PROTOCOL-ICMP PING",
	"SCAN nmap XMAS",
}

// beaconCycle is the repeating sequence of the beacon scenario
var beaconCycle = []string{
	"MALWARE-CNC Win.Trojan.Jadtre variant outbound connection",
	"INDICATOR-COMPROMISE suspicious DNS lookup",
	"MALWARE-CNC User-Agent known malicious user-agent string",
}

// Record is one alert as written to the events document
type Record struct {
	EventID   string `json:"event_id" msgpack:"event_id"`
	Timestamp string `json:"timestamp" msgpack:"timestamp"`
	Signature string `json:"signature" msgpack:"signature"`
}

// Document is the top-level events document
type Document struct {
	Events []Record `json:"events" msgpack:"events"`
}

// AlertGenerator generates synthetic IDS alerts
type AlertGenerator struct {
	rand  *rand.Rand
	start time.Time
}

// NewAlertGenerator creates a generator. The same seed and start produce the
// same alerts apart from event IDs.
func NewAlertGenerator(seed int64, start time.Time) *AlertGenerator {
	return &AlertGenerator{
		rand:  rand.New(rand.NewSource(seed)),
		start: start.UTC(),
	}
}

// layouts are rotated so the loader's timestamp parsing is exercised
var layouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Alert generates one alert at the given time
func (g *AlertGenerator) Alert(signature string, at time.Time) Record {
	return Record{
		EventID:   uuid.New().String(),
		Timestamp: at.Format(layouts[g.rand.Intn(len(layouts))]),
		Signature: signature,
	}
}

// Random generates count alerts spread over days, in time order. A share of
// invalidRatio alerts gets an unparsable timestamp.
func (g *AlertGenerator) Random(count, days int, invalidRatio float64) []Record {
	if days < 1 {
		days = 1
	}
	span := time.Duration(days) * 24 * time.Hour

	offsets := make([]time.Duration, count)
	for i := range offsets {
		offsets[i] = time.Duration(g.rand.Int63n(int64(span)))
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	records := make([]Record, 0, count)
	for _, off := range offsets {
		sig := signatureCatalog[g.rand.Intn(len(signatureCatalog))]
		rec := g.Alert(sig, g.start.Add(off).Truncate(time.Second))
		if g.rand.Float64() < invalidRatio {
			rec.Timestamp = "unknown"
		}
		records = append(records, rec)
	}
	return records
}

// Beacon generates a command and control beacon: beaconCycle repeated
// repeats times at a fixed interval
func (g *AlertGenerator) Beacon(repeats int, interval time.Duration) []Record {
	records := make([]Record, 0, repeats*len(beaconCycle))
	at := g.start
	for i := 0; i < repeats; i++ {
		for _, sig := range beaconCycle {
			records = append(records, g.Alert(sig, at))
			at = at.Add(interval)
		}
	}
	return records
}

// Mixed embeds a beacon in random background traffic
func (g *AlertGenerator) Mixed(count, days int, invalidRatio float64, repeats int) []Record {
	background := g.Random(count, days, invalidRatio)
	beacon := g.Beacon(repeats, time.Minute)

	split := len(background) / 2
	out := make([]Record, 0, len(background)+len(beacon))
	out = append(out, background[:split]...)
	out = append(out, beacon...)
	out = append(out, background[split:]...)
	return out
}
