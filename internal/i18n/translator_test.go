package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestBundle_English(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)
	tr := b.Translator(language.English)

	assert.Equal(t, "Click to upload", tr.T("form.file.clickToUpload", nil))
	assert.Equal(t, "or drag and drop", tr.T("form.file.dragAndDrop", nil))
	assert.Equal(t, "1 file selected", tr.T("form.file.multipleSelected", Params{"count": 1}))
	assert.Equal(t, "3 files selected", tr.T("form.file.multipleSelected", Params{"count": 3}))
}

func TestBundle_Spanish(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)
	tr := b.Translator(b.Match("es-MX,es;q=0.9,en;q=0.5"))

	assert.Equal(t, language.Spanish, tr.Language())
	assert.Equal(t, "Haz clic para subir", tr.T("form.file.clickToUpload", nil))
	assert.Equal(t, "2 archivos seleccionados", tr.T("form.file.multipleSelected", Params{"count": 2}))
}

func TestBundle_UnknownKeyAndLanguage(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)

	assert.Equal(t, language.English, b.Match("fr-FR"))
	assert.Equal(t, language.English, b.Match(""))
	assert.Equal(t, "form.file.nope", b.Translator(language.English).T("form.file.nope", nil))
	assert.Len(t, b.Languages(), 2)
}

func TestLoadBundle_Errors(t *testing.T) {
	_, err := LoadBundle(fstest.MapFS{"de.yaml": {Data: []byte("a: b\n")}}, "en")
	assert.Error(t, err, "default locale without messages")

	_, err = LoadBundle(fstest.MapFS{"en.yaml": {Data: []byte("a: [1, 2]\n")}}, "en")
	assert.Error(t, err)

	_, err = LoadBundle(fstest.MapFS{"en.yaml": {Data: []byte("a: b\n")}}, "??")
	assert.Error(t, err)

	b, err := LoadBundle(fstest.MapFS{"en.yaml": {Data: []byte("n:\n  other: \"%d items\"\n  one: \"%d item\"\n")}}, "en")
	require.NoError(t, err)
	tr := b.Translator(language.English)
	assert.Equal(t, "1 item", tr.T("n", Params{"count": 1}))
	assert.Equal(t, "4 items", tr.T("n", Params{"count": 4}))
}

func TestTranslator_UnknownKeyWithVerbs(t *testing.T) {
	b, err := NewBundle("en")
	require.NoError(t, err)
	tr := b.Translator(language.Spanish)

	assert.Equal(t, "100% done", tr.T("100% done", nil))
	assert.Equal(t, "x.%d", tr.T("x.%d", Params{"count": 2}))
	fr := b.Translator(language.French)
	assert.Equal(t, "Click to upload", fr.T("form.file.clickToUpload", nil))
	assert.Equal(t, "2 files selected", fr.T("form.file.multipleSelected", Params{"count": 2}))
}
