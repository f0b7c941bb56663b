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

// Pre-approved bilingual message templates. Every failure path ends in one
// of these; raw errors never reach the user.

type messageSet struct {
	emptyInput     string
	tooLong        string
	unsafeInput    string
	scopeRefusal   string
	categoryOffer  string
	greeting       string
	suggestionsFor string
	didYouMean     string
	fallbackHigh   string
	fallbackMid    string
	fallbackLow    string
}

var messages = map[string]messageSet{
	"th": {
		emptyInput:     "พิมพ์ข้อความมาก่อนนะคะ น้องปลาทูพร้อมช่วยวางแผนเที่ยวเสมอ",
		tooLong:        "ข้อความยาวเกินไปนิดนึงค่ะ ช่วยย่อให้สั้นลงหน่อยนะคะ",
		unsafeInput:    "ขอโทษค่ะ น้องปลาทูไม่สามารถรับข้อความลักษณะนี้ได้ ลองพิมพ์ใหม่อีกครั้งนะคะ",
		scopeRefusal:   "น้องปลาทูตอบได้เฉพาะเรื่องการท่องเที่ยวนะคะ ลองถามเกี่ยวกับที่เที่ยว ที่พัก หรือร้านอาหารดูค่ะ",
		categoryOffer:  "ยังไม่แน่ใจว่าอยากเที่ยวแบบไหนใช่ไหมคะ ลองเลือกดูค่ะ เช่น ตลาดน้ำ วัด ทะเล คาเฟ่ หรือธรรมชาติ",
		greeting:       "สวัสดีค่ะ น้องปลาทูยินดีต้อนรับ อยากเที่ยวที่ไหนบอกได้เลยนะคะ",
		suggestionsFor: "น้องปลาทูเจอที่เที่ยวที่น่าสนใจมาฝากค่ะ",
		didYouMean:     "ไม่แน่ใจว่าหมายถึงที่นี่หรือเปล่า ลองดูนะคะ",
		fallbackHigh:   "ตอนนี้ระบบแนะนำขัดข้องชั่วคราว แต่คำถามน่าสนใจมากค่ะ ลองถามใหม่อีกครั้งในอีกสักครู่นะคะ",
		fallbackMid:    "ขอโทษค่ะ ตอนนี้น้องปลาทูตอบไม่ได้ ลองระบุชื่อสถานที่หรือจังหวัดที่อยากไปดูค่ะ",
		fallbackLow:    "น้องปลาทูยังไม่เข้าใจคำถามค่ะ ลองถามเกี่ยวกับสถานที่ท่องเที่ยวดูนะคะ",
	},
	"en": {
		emptyInput:     "Please type a message first. I'm happy to help plan your trip!",
		tooLong:        "That message is a little too long. Could you shorten it?",
		unsafeInput:    "Sorry, I can't accept that message. Please try rephrasing it.",
		scopeRefusal:   "I can only help with travel questions. Try asking about places to visit, stay, or eat!",
		categoryOffer:  "Not sure where to go yet? Try a category: floating markets, temples, beaches, cafes, or nature.",
		greeting:       "Hello! I'm Nong Platu, your travel buddy. Where would you like to go?",
		suggestionsFor: "Here are some places you might like:",
		didYouMean:     "I'm not sure this is what you meant, but take a look:",
		fallbackHigh:   "The recommendation engine is briefly unavailable, but that's a great question. Please try again in a moment.",
		fallbackMid:    "Sorry, I can't answer that right now. Try naming a place or province you'd like to visit.",
		fallbackLow:    "I didn't quite understand. Try asking about a travel destination!",
	},
}

// templatesFor returns the message set for lang, falling back to Thai.
func templatesFor(lang string) messageSet {
	if set, ok := messages[lang]; ok {
		return set
	}
	return messages["th"]
}
