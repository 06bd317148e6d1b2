package natsadapter

import "testing"

func TestMissionSubject(t *testing.T) {
	if got := MissionSubject("m-1", "started"); got != "survey.mission.m-1.started" {
		t.Errorf("unexpected subject %q", got)
	}
	if got := MissionSubject("*", "created"); got != "survey.mission.*.created" {
		t.Errorf("unexpected wildcard subject %q", got)
	}
}
