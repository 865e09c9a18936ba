package audio

import (
	"fmt"
	"strings"

	"github.com/dendrascience/mcrawfs/timing"
)

// ixmlTemplate is the iXML chunk body, with the Blackmagic production
// fields DaVinci Resolve reads alongside the standard SPEED block.
const ixmlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<BWFXML>
 <IXML_VERSION>1.5</IXML_VERSION>
 <PROJECT>%s</PROJECT>
 <NOTE>%s</NOTE>
 <BLACKMAGIC-KEYWORDS>%s</BLACKMAGIC-KEYWORDS>
 <TAPE>%s</TAPE>
 <SCENE>%s</SCENE>
 <BLACKMAGIC-SHOT>%s</BLACKMAGIC-SHOT>
 <TAKE>%d</TAKE>
 <SPEED>
 <MASTER_SPEED>%d/%d</MASTER_SPEED>
 <CURRENT_SPEED>%d/%d</CURRENT_SPEED>
 <TIMECODE_RATE>%d/%d</TIMECODE_RATE>
 <TIMECODE_FLAG>NDF</TIMECODE_FLAG>
 </SPEED>
</BWFXML>
`

// Metadata is the set of iXML fields the synthesizer stamps into every
// audio blob. Fields left empty serialize as empty elements; every tag is
// always emitted.
type Metadata struct {
	Project            string
	Note               string
	BlackmagicKeywords string
	Tape               string
	Scene              string
	BlackmagicShot     string
	Take               int
}

// DefaultMetadata returns the zero-value-safe defaults used when the mount
// does not override any iXML field (TAKE defaults to 1).
func DefaultMetadata() Metadata {
	return Metadata{Take: 1}
}

// buildIXML renders the iXML chunk body for the given metadata and video
// frame rate, reducing fps to a fraction shared by MASTER_SPEED,
// CURRENT_SPEED, and TIMECODE_RATE.
func buildIXML(m Metadata, fps float64) string {
	frac := timing.ToFraction(fps, 1000)
	take := m.Take
	if take == 0 {
		take = 1
	}
	return fmt.Sprintf(ixmlTemplate,
		xmlEscape(m.Project), xmlEscape(m.Note), xmlEscape(m.BlackmagicKeywords),
		xmlEscape(m.Tape), xmlEscape(m.Scene), xmlEscape(m.BlackmagicShot),
		take,
		frac.Num, frac.Den,
		frac.Num, frac.Den,
		frac.Num, frac.Den,
	)
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
