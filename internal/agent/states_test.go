package agent

import (
	"testing"

	"deadwave/core/internal/geom"
)

func TestMusicStateThresholds(t *testing.T) {
	cases := []struct {
		effective float64
		want      MusicState
	}{
		{effective: 0, want: MusicHostile},
		{effective: 0.29, want: MusicHostile},
		{effective: 0.3, want: MusicEntranced},
		{effective: 0.59, want: MusicEntranced},
		{effective: 0.6, want: MusicDancing},
		{effective: 0.89, want: MusicDancing},
		{effective: 0.9, want: MusicRemembering},
		{effective: 1.0, want: MusicRemembering},
	}
	for _, tc := range cases {
		if got := musicStateFor(tc.effective); got != tc.want {
			t.Fatalf("musicStateFor(%v) = %v, want %v", tc.effective, got, tc.want)
		}
	}
}

func TestMusicStatePriorityOrder(t *testing.T) {
	ordered := []MusicState{MusicHostile, MusicEntranced, MusicDancing, MusicRemembering}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Priority() <= ordered[i-1].Priority() {
			t.Fatalf("%v must outrank %v", ordered[i], ordered[i-1])
		}
	}
}

func TestResolveMusicOverridesThreat(t *testing.T) {
	toPlayer := geom.Vec2{X: 10, Y: 0}
	heading := geom.Vec2{X: 0, Y: 1}

	cases := []struct {
		name   string
		threat ThreatState
		music  MusicState
		want   MotionKind
	}{
		{name: "wander hostile", threat: ThreatWander, music: MusicHostile, want: MotionWander},
		{name: "chase hostile", threat: ThreatChase, music: MusicHostile, want: MotionChase},
		{name: "entranced freezes a chaser", threat: ThreatChase, music: MusicEntranced, want: MotionFrozen},
		{name: "dancing sways a chaser", threat: ThreatChase, music: MusicDancing, want: MotionSway},
		{name: "remembering retreats from a chaser", threat: ThreatChase, music: MusicRemembering, want: MotionRetreat},
		{name: "entranced freezes a wanderer", threat: ThreatWander, music: MusicEntranced, want: MotionFrozen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			motion := Resolve(tc.threat, tc.music, toPlayer, heading)
			if motion.Kind != tc.want {
				t.Fatalf("Resolve(%v, %v) = %v, want %v", tc.threat, tc.music, motion.Kind, tc.want)
			}
		})
	}
}

func TestResolveDirections(t *testing.T) {
	toPlayer := geom.Vec2{X: 10, Y: 0}
	heading := geom.Vec2{X: 0, Y: 5}

	chase := Resolve(ThreatChase, MusicHostile, toPlayer, heading)
	if chase.Direction != (geom.Vec2{X: 1, Y: 0}) {
		t.Fatalf("chase direction = %v, want unit vector toward the player", chase.Direction)
	}

	retreat := Resolve(ThreatChase, MusicRemembering, toPlayer, heading)
	if retreat.Direction != (geom.Vec2{X: -1, Y: 0}) {
		t.Fatalf("retreat direction = %v, want unit vector away from the player", retreat.Direction)
	}

	frozen := Resolve(ThreatChase, MusicEntranced, toPlayer, heading)
	if frozen.Direction != (geom.Vec2{}) {
		t.Fatalf("frozen motion must carry a zero direction, got %v", frozen.Direction)
	}

	wander := Resolve(ThreatWander, MusicHostile, toPlayer, heading)
	if wander.Direction != (geom.Vec2{X: 0, Y: 1}) {
		t.Fatalf("wander direction = %v, want normalized heading", wander.Direction)
	}
}
