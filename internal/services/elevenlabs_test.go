package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobarin/echoverse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsService_GenerateSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/EXAVITQu4vr4xnSDxMaL", r.URL.Path)
		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		assert.Equal(t, "el-key", r.Header.Get("xi-api-key"))

		var body elevenLabsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Once upon a time", body.Text)
		assert.Equal(t, elevenLabsDefaultModel, body.ModelID)

		w.Write([]byte{0xFF, 0xFB, 0x90, 0x64})
	}))
	defer srv.Close()

	svc := NewElevenLabsService("el-key")
	svc.baseURL = srv.URL

	resp, err := svc.GenerateSpeech(context.Background(), "Once upon a time", models.VoiceAllison)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90, 0x64}, resp.AudioData)
}

func TestElevenLabsService_VoiceMapCoversCatalogue(t *testing.T) {
	for _, v := range models.Voices() {
		assert.NotEmpty(t, elevenLabsVoices[v], "voice %s has no ElevenLabs mapping", v)
	}
}

func TestElevenLabsService_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota_exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewElevenLabsService("el-key")
	svc.baseURL = srv.URL

	_, err := svc.GenerateSpeech(context.Background(), "text", models.VoiceLisa)
	assert.ErrorContains(t, err, "quota_exceeded")
}

func TestElevenLabsService_UnknownVoice(t *testing.T) {
	_, err := NewElevenLabsService("k").GenerateSpeech(context.Background(), "text", models.Voice("robot"))
	assert.ErrorContains(t, err, "no ElevenLabs voice")
}
