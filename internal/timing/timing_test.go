//
// Copyright (c) 2020-2023 Markku Rossi
//
// All rights reserved.
//

package timing

import (
	"testing"
	"time"
)

func TestSampleRecordsElapsedTime(t *testing.T) {
	tm := NewTiming()
	time.Sleep(time.Millisecond)
	s := tm.Sample("garble", nil)
	if s.End.Before(s.Start) {
		t.Fatalf("sample end %v is before start %v", s.End, s.Start)
	}
	if len(tm.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(tm.Samples))
	}
}

func TestSubSampleChainsFromPreviousEnd(t *testing.T) {
	tm := NewTiming()
	s := tm.Sample("transfer-inputs", nil)
	first := s.Start.Add(time.Millisecond)
	s.SubSample("OT", first)
	second := first.Add(time.Millisecond)
	s.SubSample("OT", second)

	if len(s.Samples) != 2 {
		t.Fatalf("got %d sub-samples, want 2", len(s.Samples))
	}
	if !s.Samples[0].Start.Equal(s.Start) {
		t.Fatalf("first sub-sample should start where its parent did")
	}
	if !s.Samples[1].Start.Equal(first) {
		t.Fatalf("second sub-sample should start where the first ended")
	}
}

func TestFileSizeFormatsHumanScale(t *testing.T) {
	cases := map[FileSize]string{
		500:         "500B",
		1500:        "1kB",
		1500 * 1000: "1MB",
	}
	for size, want := range cases {
		if got := size.String(); got != want {
			t.Errorf("FileSize(%d).String() = %q, want %q", uint64(size), got, want)
		}
	}
}
