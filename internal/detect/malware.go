package detect

import (
	"strings"

	"github.com/sentinelmail/sentinel/internal/core"
)

var (
	dangerousExtensions = map[string]struct{}{
		"exe": {}, "scr": {}, "bat": {}, "com": {}, "pif": {}, "cmd": {},
		"vbs": {}, "js": {}, "jar": {}, "msi": {}, "dll": {}, "sys": {},
		"drv": {}, "ocx": {}, "cpl": {}, "src": {}, "asp": {}, "php": {},
	}
	doubleExtensions = []string{".pdf.exe", ".doc.exe", ".jpg.exe", ".txt.exe"}
	lureNames        = []string{"invoice", "receipt", "document", "photo", "image", "update"}
)

const (
	malwareExtensionWeight = 0.7
	malwareDoubleExtWeight = 0.9
	malwareLureNameWeight  = 0.5
	malwareThreshold       = 0.5
)

// MalwareDetector scores attachment filenames for executable payloads.
// Confidence accumulates across all attachments and is clamped at 1.0.
type MalwareDetector struct{}

// NewMalwareDetector creates a malware detector.
func NewMalwareDetector() *MalwareDetector {
	return &MalwareDetector{}
}

func (d *MalwareDetector) Type() core.ThreatType { return core.ThreatMalware }
func (d *MalwareDetector) Threshold() float64    { return malwareThreshold }

func (d *MalwareDetector) Inspect(msg *core.Message) Result {
	var confidence float64
	var evidence []string

	for _, attachment := range msg.Attachments {
		name := strings.ToLower(attachment)

		if dot := strings.LastIndex(name, "."); dot >= 0 {
			ext := name[dot+1:]
			if _, bad := dangerousExtensions[ext]; bad {
				confidence += malwareExtensionWeight
				evidence = append(evidence, "dangerous_extension:"+attachment)
			}
		}

		for _, doubleExt := range doubleExtensions {
			if strings.Contains(name, doubleExt) {
				confidence += malwareDoubleExtWeight
				evidence = append(evidence, "double_extension:"+attachment)
			}
		}

		if strings.Contains(name, ".exe") {
			for _, lure := range lureNames {
				if strings.Contains(name, lure) {
					confidence += malwareLureNameWeight
					evidence = append(evidence, "lure_name:"+attachment)
				}
			}
		}
	}

	return finish(d, confidence, evidence)
}
