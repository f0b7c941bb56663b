// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/worldjourney/travel-assistant/internal/catalog"
	"github.com/worldjourney/travel-assistant/internal/genai"
)

// mapsURL builds a Google Maps search link for a place.
func mapsURL(name, city string) string {
	query := strings.TrimSpace(name + " " + city)
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// renderSuggestionCards renders destination matches as HTML cards. All
// catalog fields pass through html escaping; MapURL falls back to a Google
// Maps search when the catalog has no link.
func renderSuggestionCards(destinations []catalog.Destination) string {
	if len(destinations) == 0 {
		return ""
	}

	var cards []string
	for _, d := range destinations {
		link := d.MapURL
		if link == "" {
			link = mapsURL(d.Name, d.City)
		}
		cards = append(cards, fmt.Sprintf(
			`<article class="guide-entry guide-entry--suggestion">`+
				`<h3>%s</h3>`+
				`<p class="guide-city">%s</p>`+
				`<ul class="guide-lines"><li>%s</li></ul>`+
				`<p class="guide-link"><a href="%s" target="_blank" rel="noopener">Google Maps</a></p>`+
				`</article>`,
			html.EscapeString(d.Name),
			html.EscapeString(d.City),
			html.EscapeString(d.Description),
			html.EscapeString(link),
		))
	}
	return `<div class="guide-response">` + strings.Join(cards, "") + `</div>`
}

// renderStructuredReply renders an AI structured reply as HTML cards.
func renderStructuredReply(reply *genai.StructuredReply) string {
	if reply == nil || len(reply.Attractions) == 0 {
		return ""
	}

	var cards []string
	for _, attraction := range reply.Attractions {
		cards = append(cards, fmt.Sprintf(
			`<article class="guide-entry guide-entry--suggestion">`+
				`<h3>%s</h3>`+
				`<p class="guide-type">%s</p>`+
				`<ul class="guide-lines"><li>%s</li></ul>`+
				`<p class="guide-link"><a href="%s" target="_blank" rel="noopener">Google Maps</a></p>`+
				`</article>`,
			html.EscapeString(attraction.Name),
			html.EscapeString(attraction.Type),
			html.EscapeString(attraction.Description),
			html.EscapeString(mapsURL(attraction.Name, reply.Location)),
		))
	}
	return `<div class="guide-response">` + strings.Join(cards, "") + `</div>`
}

// renderPlainReply wraps a plain-text answer in the response container.
func renderPlainReply(content string) string {
	return `<div class="guide-response"><p>` + html.EscapeString(content) + `</p></div>`
}
