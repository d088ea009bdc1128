package chunk

import "testing"

func TestLightChannelsIndependent(t *testing.T) {
	var l Light
	l = l.Set(ChannelSky, 15)
	l = l.Set(ChannelRed, 7)
	l = l.Set(ChannelGreen, 3)
	l = l.Set(ChannelBlue, 1)

	if l.Sky() != 15 || l.Red() != 7 || l.Green() != 3 || l.Blue() != 1 {
		t.Fatalf("got sky=%d red=%d green=%d blue=%d", l.Sky(), l.Red(), l.Green(), l.Blue())
	}
}

func TestLightSetClampsTo15(t *testing.T) {
	var l Light
	l = l.Set(ChannelRed, 255)
	if l.Red() != 15 {
		t.Errorf("Red() = %d, want 15", l.Red())
	}
}

func TestDataGetSetLightRoundTrip(t *testing.T) {
	d := NewData(ID{})
	d.SetChannel(1, 2, 3, ChannelGreen, 9)
	if got := d.GetChannel(1, 2, 3, ChannelGreen); got != 9 {
		t.Errorf("GetChannel = %d, want 9", got)
	}
	if got := d.GetChannel(1, 2, 3, ChannelRed); got != 0 {
		t.Errorf("unrelated channel GetChannel = %d, want 0", got)
	}
}
