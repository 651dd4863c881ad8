package core

import (
	"fmt"
	"math"
)

// KeyframeBias selects which of two equidistant keyframes nearest_keyframe
// should prefer.
type KeyframeBias string

const (
	AtOrBefore KeyframeBias = "at_or_before"
	AtOrAfter  KeyframeBias = "at_or_after"
)

// GopAnalysis is the derived statistics over a stream's keyframe list.
type GopAnalysis struct {
	Keyframes        []Keyframe
	KeyframeCount    int
	AvgGopDuration   float64
	MinGopDuration   float64
	MaxGopDuration   float64
	AvgGopFrames     float64
	RegularityScore  float64 // [0, 1]
	DetectedPattern  string  // "Regular GOP-N", "Variable GOP", or ""
	FPS              float64
}

// AnalyzeGOP computes GopAnalysis from an ordered, strictly-monotonic
// keyframe list and the stream's average frame rate. Fails with
// InsufficientKeyframes when fewer than 2 keyframes are present.
func AnalyzeGOP(keyframes []Keyframe, fps float64) (GopAnalysis, error) {
	if len(keyframes) < 2 {
		return GopAnalysis{}, newErr(InsufficientKeyframes, "AnalyzeGOP",
			fmt.Errorf("%w: got %d, need >= 2", ErrInsufficientKeyframe, len(keyframes)))
	}

	gaps := make([]float64, 0, len(keyframes)-1)
	frameGaps := make([]int64, 0, len(keyframes)-1)
	for i := 0; i < len(keyframes)-1; i++ {
		gaps = append(gaps, keyframes[i+1].Seconds-keyframes[i].Seconds)
		frameGaps = append(frameGaps, keyframes[i+1].FrameNumber-keyframes[i].FrameNumber)
	}

	avg := mean(gaps)
	minGap, maxGap := gaps[0], gaps[0]
	for _, g := range gaps {
		if g < minGap {
			minGap = g
		}
		if g > maxGap {
			maxGap = g
		}
	}

	var cv float64
	if len(gaps) == 1 {
		cv = 0
	} else if avg > 0 {
		cv = stddev(gaps, avg) / avg
	}

	score := math.Exp(-5 * cv)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	pattern := detectPattern(frameGaps, score)

	var avgFrames float64
	if len(frameGaps) > 0 {
		var sum int64
		for _, f := range frameGaps {
			sum += f
		}
		avgFrames = float64(sum) / float64(len(frameGaps))
	}

	return GopAnalysis{
		Keyframes:       keyframes,
		KeyframeCount:   len(keyframes),
		AvgGopDuration:  avg,
		MinGopDuration:  minGap,
		MaxGopDuration:  maxGap,
		AvgGopFrames:    avgFrames,
		RegularityScore: score,
		DetectedPattern: pattern,
		FPS:             fps,
	}, nil
}

func detectPattern(frameGaps []int64, score float64) string {
	if len(frameGaps) == 0 {
		return ""
	}
	counts := map[int64]int{}
	for _, g := range frameGaps {
		counts[g]++
	}
	var modeSize int64
	var modeCount int
	for size, count := range counts {
		if count > modeCount {
			modeSize, modeCount = size, count
		}
	}
	if float64(modeCount)/float64(len(frameGaps)) > 0.8 && score > 0.8 {
		return fmt.Sprintf("Regular GOP-%d", modeSize)
	}
	if score > 0.8 {
		return "Variable GOP"
	}
	return ""
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, avg float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// IsKeyframeAligned reports whether some keyframe's Seconds value is
// within tolerance of t.
func (g GopAnalysis) IsKeyframeAligned(t float64, tolerance float64) bool {
	for _, kf := range g.Keyframes {
		if math.Abs(kf.Seconds-t) <= tolerance {
			return true
		}
	}
	return false
}

// DefaultAlignmentTolerance returns one frame duration at the analysis's
// average frame rate, the spec's default keyframe-alignment tolerance.
func (g GopAnalysis) DefaultAlignmentTolerance() float64 {
	if g.FPS <= 0 {
		return 0
	}
	return 1.0 / g.FPS
}

// NearestKeyframe returns the keyframe minimizing |kf - t|, breaking ties
// per bias: AtOrBefore prefers the keyframe at or before t, AtOrAfter
// prefers the keyframe at or after t.
func (g GopAnalysis) NearestKeyframe(t float64, bias KeyframeBias) (Keyframe, error) {
	if len(g.Keyframes) == 0 {
		return Keyframe{}, newErr(InsufficientKeyframes, "NearestKeyframe", ErrInsufficientKeyframe)
	}

	best := g.Keyframes[0]
	bestDist := math.Abs(best.Seconds - t)
	for _, kf := range g.Keyframes[1:] {
		dist := math.Abs(kf.Seconds - t)
		switch {
		case dist < bestDist:
			best, bestDist = kf, dist
		case dist == bestDist:
			if bias == AtOrBefore && kf.Seconds < best.Seconds {
				best = kf
			} else if bias == AtOrAfter && kf.Seconds > best.Seconds {
				best = kf
			}
		}
	}
	return best, nil
}

// OptimalCutPoints returns the keyframe-aligned start/end candidates per
// the spec: nearest-at-or-before for the start, nearest-at-or-after for
// the end.
func (g GopAnalysis) OptimalCutPoints(start, end TimeSpec) (Keyframe, Keyframe, error) {
	s, err := g.NearestKeyframe(start.Seconds(), AtOrBefore)
	if err != nil {
		return Keyframe{}, Keyframe{}, err
	}
	e, err := g.NearestKeyframe(end.Seconds(), AtOrAfter)
	if err != nil {
		return Keyframe{}, Keyframe{}, err
	}
	return s, e, nil
}

// FirstKeyframeAfter returns the first keyframe with Seconds strictly
// greater than t, or false if none exists.
func (g GopAnalysis) FirstKeyframeAfter(t float64) (Keyframe, bool) {
	for _, kf := range g.Keyframes {
		if kf.Seconds > t {
			return kf, true
		}
	}
	return Keyframe{}, false
}

// LastKeyframeBefore returns the last keyframe with Seconds strictly less
// than t, or false if none exists.
func (g GopAnalysis) LastKeyframeBefore(t float64) (Keyframe, bool) {
	var found Keyframe
	ok := false
	for _, kf := range g.Keyframes {
		if kf.Seconds < t {
			found = kf
			ok = true
		} else {
			break
		}
	}
	return found, ok
}
