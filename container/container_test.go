package container

import (
	"testing"

	"github.com/arloliu/mdf/descriptor"
	"github.com/stretchr/testify/require"
)

func TestSet_AddAndLookup(t *testing.T) {
	s := NewSet()
	err := s.AddChannel(0, "t", Column{Float: []float64{0, 1, 2}}, "t", 1, "s", "time", descriptor.Identity())
	require.NoError(t, err)
	err = s.AddChannel(0, "x", Column{Float: []float64{1.0, 2.5, 4.0}}, "t", 1, "V", "voltage", descriptor.Linear(-5, 0.5))
	require.NoError(t, err)

	ch, ok := s.Channel("x")
	require.True(t, ok)
	require.Equal(t, "t", ch.MasterName)
	require.False(t, ch.IsMaster())
	require.Equal(t, []float64{1.0, 2.5, 4.0}, ch.Column.Float)

	master, ok := s.Channel("t")
	require.True(t, ok)
	require.True(t, master.IsMaster())
}

func TestSet_ChannelsInGroupPreservesInsertionOrder(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddChannel(0, "a", Column{Float: []float64{1}}, "a", 1, "", "", descriptor.Identity()))
	require.NoError(t, s.AddChannel(0, "b", Column{Float: []float64{2}}, "a", 1, "", "", descriptor.Identity()))
	require.NoError(t, s.AddChannel(1, "c", Column{Float: []float64{3}}, "c", 1, "", "", descriptor.Identity()))

	g0 := s.ChannelsInGroup(0)
	require.Len(t, g0, 2)
	require.Equal(t, "a", g0[0].Name)
	require.Equal(t, "b", g0[1].Name)

	require.Equal(t, []int{0, 1}, s.DataGroups())
}

func TestSet_AddChannel_EmptyName(t *testing.T) {
	s := NewSet()
	err := s.AddChannel(0, "", Column{}, "", 0, "", "", descriptor.Identity())
	require.Error(t, err)
}

func TestSet_Channel_NotFound(t *testing.T) {
	s := NewSet()
	_, ok := s.Channel("missing")
	require.False(t, ok)
}
