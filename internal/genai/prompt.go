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

package genai

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPromptThai = `คุณคือน้องปลาทู AI ผู้ช่วยวางแผนการท่องเที่ยว
คุณต้องตอบคำถามเกี่ยวกับการท่องเที่ยวเท่านั้น โดยเฉพาะสถานที่ท่องเที่ยวในประเทศไทย
ให้คำแนะนำแบบกันเองและเป็นมิตร ใช้ภาษาไทย
ถ้าผู้ใช้ถามเกี่ยวกับสถานที่ท่องเที่ยว ให้แนะนำ 3-5 สถานที่ยอดนิยมหรือกิจกรรมที่น่าสนใจ พร้อมคำอธิบายสั้นๆ
จัดรูปแบบเป็น JSON ที่มี:
{
  "location": "ชื่อสถานที่",
  "attractions": [
    {"name": "ชื่อสถานที่ท่องเที่ยว", "description": "คำอธิบายสั้นๆ", "type": "ประเภท เช่น ทะเล ภูเขา วัด ช้อปปิ้ง"}
  ],
  "summary": "สรุปแบบกันเองสั้นๆ"
}`

const systemPromptEnglish = `You are Nong Platu, a friendly Thai travel planning assistant.
Answer travel questions only, with a focus on destinations in Thailand.
When the user asks about a place, suggest 3-5 popular attractions or activities with short descriptions.
Format the answer as JSON:
{
  "location": "place name",
  "attractions": [
    {"name": "attraction name", "description": "short description", "type": "category such as beach, mountain, temple, shopping"}
  ],
  "summary": "a short friendly summary"
}`

// BuildSystemPrompt returns the persona prompt for the detected language.
func BuildSystemPrompt(lang string) string {
	if lang == "th" {
		return systemPromptThai
	}
	return systemPromptEnglish
}

// BuildMessages assembles the completion messages for an optimized query.
// Verified catalog entries, when present, are included with an instruction
// to prefer them over invented places; their absence is called out so the
// model frames its answer as general suggestions.
func BuildMessages(optimizedQuery, lang, intent string, verifiedEntries []string) []openai.ChatCompletionMessage {
	var b strings.Builder

	if lang == "th" {
		fmt.Fprintf(&b, "ช่วยแนะนำที่เที่ยวเกี่ยวกับ: %s\n", optimizedQuery)
	} else {
		fmt.Fprintf(&b, "Suggest travel ideas for: %s\n", optimizedQuery)
	}
	if intent != "" && intent != "general" {
		fmt.Fprintf(&b, "(detected intent: %s)\n", intent)
	}

	if len(verifiedEntries) > 0 {
		if lang == "th" {
			b.WriteString("ข้อมูลสถานที่ที่ยืนยันแล้วจากฐานข้อมูล ใช้ข้อมูลนี้ก่อนเสมอ อย่าแต่งสถานที่เพิ่มเอง:\n")
		} else {
			b.WriteString("Verified places from the local database. Prefer these and do not invent new places:\n")
		}
		for i, entry := range verifiedEntries {
			fmt.Fprintf(&b, "%d. %s\n", i+1, entry)
		}
	} else {
		if lang == "th" {
			b.WriteString("ไม่มีข้อมูลที่ยืนยันแล้วสำหรับคำถามนี้ ให้ตอบเป็นคำแนะนำทั่วไป\n")
		} else {
			b.WriteString("No verified local data matches this query; answer with general suggestions.\n")
		}
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt(lang)},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}
}
