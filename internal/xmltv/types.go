// SPDX-License-Identifier: MIT

// Package xmltv implements the XMLTV listings format: a <tv> document
// holding channel definitions followed by programme entries.
package xmltv

import "encoding/xml"

// TV is the document root. The attributes and the channel list form the
// document header; normalization passes them through unchanged.
type TV struct {
	XMLName        xml.Name    `xml:"tv"`
	Date           string      `xml:"date,attr,omitempty"`
	SourceInfoURL  string      `xml:"source-info-url,attr,omitempty"`
	SourceInfoName string      `xml:"source-info-name,attr,omitempty"`
	SourceDataURL  string      `xml:"source-data-url,attr,omitempty"`
	Generator      string      `xml:"generator-info-name,attr,omitempty"`
	GeneratorURL   string      `xml:"generator-info-url,attr,omitempty"`
	Channels       []Channel   `xml:"channel"`
	Programmes     []Programme `xml:"programme"`
}

// Channel declares one logical stream referenced by programme entries.
type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []Text   `xml:"display-name"`
	Icons       []Icon   `xml:"icon"`
	URLs        []string `xml:"url"`
}

// Text is character data with an optional language attribute.
type Text struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Icon references an image by source URL.
type Icon struct {
	Src    string `xml:"src,attr"`
	Width  string `xml:"width,attr,omitempty"`
	Height string `xml:"height,attr,omitempty"`
}

// Programme is one schedule entry. Start, Stop, Channel and ClumpIdx are
// the temporal/ordering attributes; everything below them is descriptive
// payload that normalization carries through byte-for-byte.
type Programme struct {
	Start     string `xml:"start,attr"`
	Stop      string `xml:"stop,attr,omitempty"`
	PDCStart  string `xml:"pdc-start,attr,omitempty"`
	VPSStart  string `xml:"vps-start,attr,omitempty"`
	ShowView  string `xml:"showview,attr,omitempty"`
	VideoPlus string `xml:"videoplus,attr,omitempty"`
	Channel   string `xml:"channel,attr"`
	ClumpIdx  string `xml:"clumpidx,attr,omitempty"`

	Titles          []Text           `xml:"title"`
	SubTitles       []Text           `xml:"sub-title"`
	Descs           []Text           `xml:"desc"`
	Credits         *Credits         `xml:"credits"`
	Date            string           `xml:"date,omitempty"`
	Categories      []Text           `xml:"category"`
	Language        *Text            `xml:"language"`
	OrigLanguage    *Text            `xml:"orig-language"`
	Length          *Length          `xml:"length"`
	Icons           []Icon           `xml:"icon"`
	URLs            []string         `xml:"url"`
	Countries       []Text           `xml:"country"`
	EpisodeNums     []EpisodeNum     `xml:"episode-num"`
	Video           *Video           `xml:"video"`
	Audio           *Audio           `xml:"audio"`
	PreviouslyShown *PreviouslyShown `xml:"previously-shown"`
	Premiere        *Text            `xml:"premiere"`
	LastChance      *Text            `xml:"last-chance"`
	New             *Flag            `xml:"new"`
	Subtitles       []Subtitles      `xml:"subtitles"`
	Ratings         []Rating         `xml:"rating"`
	StarRatings     []Rating         `xml:"star-rating"`
}

// Flag marks a presence-only element such as <new/>.
type Flag struct{}

// Credits lists the people involved in a programme, in DTD order.
type Credits struct {
	Directors    []string `xml:"director"`
	Actors       []Actor  `xml:"actor"`
	Writers      []string `xml:"writer"`
	Adapters     []string `xml:"adapter"`
	Producers    []string `xml:"producer"`
	Composers    []string `xml:"composer"`
	Editors      []string `xml:"editor"`
	Presenters   []string `xml:"presenter"`
	Commentators []string `xml:"commentator"`
	Guests       []string `xml:"guest"`
}

// Actor is a cast member with an optional role.
type Actor struct {
	Role  string `xml:"role,attr,omitempty"`
	Value string `xml:",chardata"`
}

// Length is a programme duration with explicit units.
type Length struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

// EpisodeNum carries an episode identifier in a named numbering system
// (xmltv_ns, onscreen, ...).
type EpisodeNum struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:",chardata"`
}

// Video describes the video component of a programme.
type Video struct {
	Present string `xml:"present,omitempty"`
	Colour  string `xml:"colour,omitempty"`
	Aspect  string `xml:"aspect,omitempty"`
	Quality string `xml:"quality,omitempty"`
}

// Audio describes the audio component of a programme.
type Audio struct {
	Present string `xml:"present,omitempty"`
	Stereo  string `xml:"stereo,omitempty"`
}

// PreviouslyShown records an earlier transmission of the same programme.
type PreviouslyShown struct {
	Start   string `xml:"start,attr,omitempty"`
	Channel string `xml:"channel,attr,omitempty"`
}

// Subtitles describes a subtitle stream (teletext, onscreen, deaf-signed).
type Subtitles struct {
	Type     string `xml:"type,attr,omitempty"`
	Language *Text  `xml:"language"`
}

// Rating is an age or star rating in a named system.
type Rating struct {
	System string `xml:"system,attr,omitempty"`
	Value  string `xml:"value"`
	Icons  []Icon `xml:"icon"`
}
