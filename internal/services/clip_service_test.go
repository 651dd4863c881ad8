package services

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mifi/goclip/internal/config"
	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/models"
)

func newTestClipService() *ClipService {
	cfg := &config.Config{
		Clip: config.ClipConfig{
			DefaultCRF:        23,
			DefaultVideoCodec: "libx264",
			DefaultAudioCodec: "aac",
			DefaultContainer:  "mp4",
		},
	}
	return NewClipService(nil, nil, cfg, zap.NewNop())
}

func intPtr(v int) *int { return &v }

func TestBuildClipRequestCRFZeroIsExplicit(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out.mp4", Start: "0", End: "5", CRF: intPtr(0)}

	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		t.Fatalf("buildClipRequest: %v", err)
	}
	if coreReq.Quality.CRF != 0 {
		t.Errorf("Quality.CRF = %d, want 0 (explicit lossless, not the config default)", coreReq.Quality.CRF)
	}
}

func TestBuildClipRequestCRFUnsetUsesDefault(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out.mp4", Start: "0", End: "5"}

	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		t.Fatalf("buildClipRequest: %v", err)
	}
	if coreReq.Quality.CRF != 23 {
		t.Errorf("Quality.CRF = %d, want config default 23", coreReq.Quality.CRF)
	}
}

func TestBuildClipRequestRejectsOutOfRangeCRF(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out.mp4", Start: "0", End: "5", CRF: intPtr(52)}

	_, err := s.buildClipRequest(req)
	if err == nil {
		t.Fatal("expected error for CRF out of [0,51] range")
	}
	if core.KindOf(err) != core.InvalidArgument {
		t.Errorf("KindOf(err) = %v, want InvalidArgument", core.KindOf(err))
	}
}

func TestBuildClipRequestContainerFromOutputExtension(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out.mkv", Start: "0", End: "5"}

	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		t.Fatalf("buildClipRequest: %v", err)
	}
	if coreReq.ContainerFormat != "mkv" {
		t.Errorf("ContainerFormat = %q, want %q derived from output extension", coreReq.ContainerFormat, "mkv")
	}
}

func TestBuildClipRequestExplicitContainerOverridesExtension(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out.mkv", Start: "0", End: "5", Container: "webm"}

	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		t.Fatalf("buildClipRequest: %v", err)
	}
	if coreReq.ContainerFormat != "webm" {
		t.Errorf("ContainerFormat = %q, want explicit %q", coreReq.ContainerFormat, "webm")
	}
}

func TestBuildClipRequestNoExtensionFallsBackToConfigDefault(t *testing.T) {
	s := newTestClipService()
	req := models.ClipRequest{InputPath: "in.mp4", OutputPath: "out", Start: "0", End: "5"}

	coreReq, err := s.buildClipRequest(req)
	if err != nil {
		t.Fatalf("buildClipRequest: %v", err)
	}
	if coreReq.ContainerFormat != "mp4" {
		t.Errorf("ContainerFormat = %q, want config default %q", coreReq.ContainerFormat, "mp4")
	}
}
