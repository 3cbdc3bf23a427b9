package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const (
	russianText = "Добрый день, сегодня мы поговорим о том, как правильно готовить борщ и почему это блюдо так любят во всём мире."
	englishText = "Good afternoon, today we are going to talk about how to cook a proper soup and why people all over the world love it."
	greekText   = "Καλησπέρα σας, σήμερα θα μιλήσουμε για το πώς να μαγειρέψουμε μια σωστή σούπα και γιατί την αγαπούν όλοι."
)

func TestCheckLanguage_Match(t *testing.T) {
	assert.Nil(t, CheckLanguage(russianText, language.Russian))
	assert.Nil(t, CheckLanguage(englishText, language.MustParse("en-US")))
}

func TestCheckLanguage_Mismatch(t *testing.T) {
	mismatch := CheckLanguage(greekText, language.Russian)
	require.NotNil(t, mismatch)

	assert.Equal(t, language.Russian, mismatch.Requested)
	base, _ := mismatch.Detected.Base()
	assert.Equal(t, "el", base.String())
}

func TestCheckLanguage_ShortText(t *testing.T) {
	assert.Nil(t, CheckLanguage("Hello world", language.Russian))
	assert.Nil(t, CheckLanguage("", language.Russian))
}
