package core

import "testing"

func TestParseTimeSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{"5.5", 5.5, false},
		{"1:30", 90, false},
		{"1:30.25", 90.25, false},
		{"1:02:03", 3723, false},
		{"0:00:00.5", 0.5, false},
		{"1:2:03:04", 0, true},
		{"1:70", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"1:abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeSpec(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTimeSpec(%q): expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeSpec(%q): unexpected error: %v", tt.input, err)
			}
			if got.Seconds() != tt.want {
				t.Errorf("ParseTimeSpec(%q) = %v, want %v", tt.input, got.Seconds(), tt.want)
			}
		})
	}
}

func TestTimeSpecFormat(t *testing.T) {
	tests := []struct {
		in   TimeSpec
		want string
	}{
		{TimeSpec(5.5), "0:05.500"},
		{TimeSpec(90.25), "1:30.250"},
		{TimeSpec(3723), "1:02:03.000"},
	}
	for _, tt := range tests {
		got := tt.in.Format()
		if got != tt.want {
			t.Errorf("TimeSpec(%v).Format() = %q, want %q", float64(tt.in), got, tt.want)
		}
	}
}

func TestTimebaseRoundTrip(t *testing.T) {
	tb, err := NewTimebase(1, 90000)
	if err != nil {
		t.Fatalf("NewTimebase: %v", err)
	}
	seconds := 12.345
	pts := tb.SecondsToPTS(seconds)
	back := tb.PTSToSeconds(pts)
	if diff := back - seconds; diff > 1.0/90000 || diff < -1.0/90000 {
		t.Errorf("round trip drifted: %v -> %v -> %v", seconds, pts, back)
	}
}

func TestRescaleIdenticalTimebaseIsLossless(t *testing.T) {
	tb, _ := NewTimebase(1, 48000)
	for _, pts := range []int64{0, 1, 12345, 999999} {
		if got := Rescale(pts, tb, tb); got != pts {
			t.Errorf("Rescale(%d, tb, tb) = %d, want %d (identical timebase must be exact)", pts, got, pts)
		}
	}
}

func TestRescaleAcrossTimebases(t *testing.T) {
	from, _ := NewTimebase(1, 1000)
	to, _ := NewTimebase(1, 90000)
	got := Rescale(1000, from, to)
	if got != 90000 {
		t.Errorf("Rescale(1000, 1/1000, 1/90000) = %d, want 90000", got)
	}
}

func TestNewTimebaseRejectsZeroDenominator(t *testing.T) {
	if _, err := NewTimebase(1, 0); err == nil {
		t.Fatal("expected error for zero denominator")
	}
}
