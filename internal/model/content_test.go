package model

import "testing"

func TestContentType_IsValid_AcceptsDefinedValues(t *testing.T) {
	valid := []ContentType{
		ContentTypeInstagram,
		ContentTypeYoutube,
		ContentTypeWhatsapp,
		ContentTypeFacebook,
		ContentTypeRandom,
	}

	for _, ct := range valid {
		if !ct.IsValid() {
			t.Errorf("ContentType(%q).IsValid() = false, want true", ct)
		}
	}
}

func TestContentType_IsValid_RejectsUnknownValues(t *testing.T) {
	invalid := []ContentType{
		"",
		"instagram", // 大文字小文字は区別する
		"Twitter",
		"RANDOM",
		"Youtube ",
	}

	for _, ct := range invalid {
		if ct.IsValid() {
			t.Errorf("ContentType(%q).IsValid() = true, want false", ct)
		}
	}
}
