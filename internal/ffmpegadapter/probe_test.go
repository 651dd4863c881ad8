package ffmpegadapter

import "testing"

func TestCanonicalContainer(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		formatName string
		want       string
	}{
		{"mp4 by extension", "clip.mp4", "mov,mp4,m4a,3gp,3g2,mj2", "mp4"},
		{"mov by extension", "clip.mov", "mov,mp4,m4a,3gp,3g2,mj2", "mov"},
		{"m4v by extension", "clip.m4v", "mov,mp4,m4a,3gp,3g2,mj2", "m4v"},
		{"mp4 family defaults to mp4 when extension is unrecognized", "clip.video", "mov,mp4,m4a,3gp,3g2,mj2", "mp4"},
		{"mkv by default within the matroska family", "clip.mkv", "matroska,webm", "mkv"},
		{"webm by extension", "clip.webm", "matroska,webm", "webm"},
		{"ts by default within the mpegts family", "clip.ts", "mpegts", "ts"},
		{"mts by extension", "clip.mts", "mpegts", "mts"},
		{"m2ts by extension", "clip.m2ts", "mpegts", "m2ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalContainer(tt.path, tt.formatName)
			if got != tt.want {
				t.Errorf("canonicalContainer(%q, %q) = %q, want %q", tt.path, tt.formatName, got, tt.want)
			}
		})
	}
}
