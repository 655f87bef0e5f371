package world

import (
	"net"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, w *World) (*Server, *Client) {
	t.Helper()
	return connectTo(t, NewServer(w, Direct))
}

func connectTo(t *testing.T, server *Server) (*Server, *Client) {
	t.Helper()
	sconn, cconn := net.Pipe()
	go server.ServeConn(sconn)

	client, err := NewClient(cconn)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return server, client
}

func TestFetchWorld(t *testing.T) {
	w := NewWorld(6, 5, 4)
	w.CreateFlatWorld(2)
	w.SetBlock(5, 4, 3, Glass)

	_, client := connect(t, w)
	assert.NotZero(t, client.ClientID)

	got, err := client.FetchWorld()
	require.NoError(t, err)
	sx, sy, sz := got.Size()
	assert.Equal(t, []int{6, 5, 4}, []int{sx, sy, sz})
	assert.Equal(t, w.NetworkString(), got.NetworkString())
	assert.Equal(t, w.Spawn, got.Spawn)
}

func TestClientSetBlock(t *testing.T) {
	w := NewWorld(4, 4, 4)
	r := new(recorder)
	w.Observe(r)

	_, client := connect(t, w)
	require.NoError(t, client.SetBlock(1, 2, 3, Brick))
	assert.Equal(t, Brick, w.Block(1, 2, 3))
	assert.Equal(t, []Vec3{{1, 2, 3}}, r.calls)

	assert.Error(t, client.SetBlock(4, 0, 0, Brick))
	assert.Error(t, client.SetBlock(0, 0, 0, MaxBlockID+1))
	assert.Len(t, r.calls, 1)
}

func TestUpdatePlayer(t *testing.T) {
	w := NewWorld(4, 4, 4)
	w.AddPlayer(&Player{ID: 100, Pos: mgl32.Vec3{1, 1, 1}, Yaw: 0.5})

	_, client := connect(t, w)
	p := NewPlayer(client.ClientID, mgl32.Vec3{2, 3, 4})
	others, err := client.UpdatePlayer(p)
	require.NoError(t, err)

	assert.Equal(t, map[int32]PlayerState{100: {Pos: [3]float32{1, 1, 1}, Yaw: 0.5}}, others)
	require.Contains(t, w.Players, client.ClientID)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, w.Players[client.ClientID].Pos)
}

// blockLog records the block id seen at every change.
type blockLog struct {
	w   *World
	ids []BlockID
}

func (l *blockLog) OnBlockChanged(x, y, z int) {
	l.ids = append(l.ids, l.w.Block(x, y, z))
}

func TestEditSenderKeepsOrder(t *testing.T) {
	w := NewWorld(4, 4, 4)
	seen := &blockLog{w: w}
	w.Observe(seen)

	_, client := connect(t, w)
	sender := NewEditSender(client, 2)
	var want []BlockID
	for i := 0; i < 20; i++ {
		sender.Send(Vec3{1, 1, 1}, Brick)
		sender.Send(Vec3{1, 1, 1}, Air)
		want = append(want, Brick, Air)
	}
	sender.Send(Vec3{1, 1, 1}, Stone)
	want = append(want, Stone)
	sender.Close()

	assert.Equal(t, want, seen.ids)
	assert.Equal(t, Stone, w.Block(1, 1, 1))
}

func TestKick(t *testing.T) {
	w := NewWorld(4, 4, 4)
	server, client := connect(t, w)
	require.Eventually(t, func() bool { return server.Sessions() == 1 }, time.Second, 5*time.Millisecond)

	assert.False(t, server.Kick(client.ClientID+1))
	assert.True(t, server.Kick(client.ClientID))
	assert.Eventually(t, func() bool { return server.Sessions() == 0 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return client.SetBlock(0, 0, 0, Brick) != nil }, time.Second, 5*time.Millisecond)
}

func TestCloseSessions(t *testing.T) {
	w := NewWorld(4, 4, 4)
	server, a := connect(t, w)
	_, b := connectTo(t, server)
	require.Eventually(t, func() bool { return server.Sessions() == 2 }, time.Second, 5*time.Millisecond)

	server.CloseSessions()
	assert.Eventually(t, func() bool { return server.Sessions() == 0 }, time.Second, 5*time.Millisecond)
	for _, c := range []*Client{a, b} {
		assert.Eventually(t, func() bool { return c.SetBlock(0, 0, 0, Brick) != nil }, time.Second, 5*time.Millisecond)
	}
}

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, "localhost:"+DefaultPort, NormalizeAddr("localhost"))
	assert.Equal(t, ":9000", NormalizeAddr(":9000"))
}
