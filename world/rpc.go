package world

import (
	"log"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hashicorp/yamux"
	"github.com/pkg/errors"
)

const (
	DefaultPort      = "8421"
	handshakeTimeout = 10 * time.Second
)

// Executor runs f on the goroutine that owns the world. The binary passes
// mainthread.Call.
type Executor func(f func())

// Direct runs f on the calling goroutine.
func Direct(f func()) { f() }

type Session struct {
	ClientID   int32
	masterConn net.Conn
	*rpc.Client
}

// Server shares a world with peers. Every peer connection is a yamux session
// carrying two jsonrpc streams: one the server calls into the client on, one
// the client calls the world service on.
type Server struct {
	*rpc.Server
	clientid int32
	sessions sync.Map
	world    *WorldService
}

func NewServer(w *World, exec Executor) *Server {
	if exec == nil {
		exec = Direct
	}
	s := &Server{
		Server: rpc.NewServer(),
		world:  &WorldService{world: w, exec: exec},
	}
	s.RegisterName("World", s.world)
	s.RegisterName("Player", &PlayerService{world: w, exec: exec})
	return s
}

// ServeConn serves one peer until it disconnects.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()
	id := atomic.AddInt32(&s.clientid, 1)
	log.Printf("allocated %d for %s", id, conn.RemoteAddr())

	ysess, err := yamux.Server(conn, nil)
	if err != nil {
		log.Print(err)
		return
	}
	defer ysess.Close()

	clientConn, err := ysess.Open()
	if err != nil {
		log.Print(err)
		return
	}

	sess := &Session{
		ClientID:   id,
		masterConn: conn,
		Client:     rpc.NewClientWithCodec(jsonrpc.NewClientCodec(clientConn)),
	}
	defer sess.Client.Close()

	// send id to client, handshake done.
	err = sess.Call("Status.InitClient", &InitClientRequest{ClientID: id}, new(InitClientResponse))
	if err != nil {
		log.Print(err)
		return
	}
	s.sessions.Store(id, sess)

	sconn, err := ysess.Accept()
	if err != nil {
		log.Print(err)
		s.sessions.Delete(id)
		return
	}
	s.ServeCodec(jsonrpc.NewServerCodec(sconn))

	s.sessions.Delete(id)
	s.world.exec(func() {
		s.world.world.RemovePlayer(id)
	})
	log.Printf("%s(%d) closed connection", conn.RemoteAddr(), id)
}

// Serve accepts peers until the listener fails.
func (s *Server) Serve(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			log.Print(err)
			return err
		}
		go s.ServeConn(conn)
	}
}

// Sessions returns the number of connected peers.
func (s *Server) Sessions() int {
	n := 0
	s.sessions.Range(func(k, v interface{}) bool {
		n++
		return true
	})
	return n
}

// Kick closes the connection of peer id.
func (s *Server) Kick(id int32) bool {
	v, ok := s.sessions.Load(id)
	if !ok {
		return false
	}
	v.(*Session).masterConn.Close()
	return true
}

// CloseSessions closes the connection of every peer.
func (s *Server) CloseSessions() {
	s.sessions.Range(func(k, v interface{}) bool {
		v.(*Session).masterConn.Close()
		return true
	})
}

// Listen starts a server on addr in the background.
func Listen(addr string, w *World, exec Executor) (net.Listener, *Server, error) {
	l, err := net.Listen("tcp", NormalizeAddr(addr))
	if err != nil {
		return nil, nil, err
	}
	s := NewServer(w, exec)
	go s.Serve(l)
	log.Printf("world service listening on %s", l.Addr())
	return l, s, nil
}

// NormalizeAddr appends the default port when addr has none.
func NormalizeAddr(addr string) string {
	if !strings.Contains(addr, ":") {
		addr += ":" + DefaultPort
	}
	return addr
}

type Client struct {
	*rpc.Client
	ClientID  int32
	sess      *yamux.Session
	rpcServer *rpc.Server
	waitInit  chan int32
}

// NewClient runs the client side of the handshake on conn.
func NewClient(conn net.Conn) (*Client, error) {
	c := &Client{
		rpcServer: rpc.NewServer(),
		waitInit:  make(chan int32, 1),
	}
	c.rpcServer.RegisterName("Status", &StatusService{client: c})

	sess, err := yamux.Client(conn, nil)
	if err != nil {
		return nil, err
	}
	c.sess = sess

	clientConn, err := sess.Open()
	if err != nil {
		sess.Close()
		return nil, err
	}
	c.Client = rpc.NewClientWithCodec(jsonrpc.NewClientCodec(clientConn))

	clientService, err := sess.Accept()
	if err != nil {
		sess.Close()
		return nil, err
	}
	go c.rpcServer.ServeCodec(jsonrpc.NewServerCodec(clientService))

	select {
	case c.ClientID = <-c.waitInit:
	case <-time.After(handshakeTimeout):
		sess.Close()
		return nil, errors.New("handshake timed out")
	}
	return c, nil
}

func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", NormalizeAddr(addr))
	if err != nil {
		return nil, err
	}
	c, err := NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close() error {
	c.Client.Close()
	return c.sess.Close()
}

// FetchWorld downloads the peer's world into a new World.
func (c *Client) FetchWorld() (*World, error) {
	rep := new(FetchWorldResponse)
	if err := c.Call("World.Fetch", &FetchWorldRequest{}, rep); err != nil {
		return nil, errors.Wrap(err, "fetch world")
	}
	if rep.SX <= 0 || rep.SY <= 0 || rep.SZ <= 0 {
		return nil, errors.Wrapf(ErrSizeMismatch, "peer world %dx%dx%d", rep.SX, rep.SY, rep.SZ)
	}
	w := NewWorld(rep.SX, rep.SY, rep.SZ)
	if err := w.LoadNetworkString(rep.Blocks); err != nil {
		return nil, err
	}
	w.Spawn = mgl32.Vec3(rep.Spawn)
	return w, nil
}

func (c *Client) SetBlock(x, y, z int, id BlockID) error {
	req := &SetBlockRequest{X: x, Y: y, Z: z, ID: id}
	return c.Call("World.SetBlock", req, new(SetBlockResponse))
}

// BlockEdit is one block change sent to a peer.
type BlockEdit struct {
	Pos Vec3
	ID  BlockID
}

// EditSender forwards block edits to the peer from a single goroutine, in
// the order they were queued.
type EditSender struct {
	client *Client
	edits  chan BlockEdit
	done   chan struct{}
}

func NewEditSender(c *Client, queue int) *EditSender {
	s := &EditSender{
		client: c,
		edits:  make(chan BlockEdit, queue),
		done:   make(chan struct{}),
	}
	go s.sendLoop()
	return s
}

func (s *EditSender) sendLoop() {
	defer close(s.done)
	for e := range s.edits {
		if err := s.client.SetBlock(e.Pos.X, e.Pos.Y, e.Pos.Z, e.ID); err != nil {
			log.Printf("send block %v: %v", e.Pos, err)
		}
	}
}

// Send queues an edit, blocking while the queue is full.
func (s *EditSender) Send(pos Vec3, id BlockID) {
	s.edits <- BlockEdit{Pos: pos, ID: id}
}

// Close flushes the queued edits and stops the sender.
func (s *EditSender) Close() {
	close(s.edits)
	<-s.done
}

// UpdatePlayer publishes the local player and returns every other player.
func (c *Client) UpdatePlayer(p *Player) (map[int32]PlayerState, error) {
	req := &UpdateStateRequest{
		ID:    c.ClientID,
		State: PlayerState{Pos: [3]float32(p.Pos), Pitch: p.Pitch, Yaw: p.Yaw},
	}
	rep := new(UpdateStateResponse)
	if err := c.Call("Player.UpdateState", req, rep); err != nil {
		return nil, err
	}
	return rep.Players, nil
}

// FetchWorld connects over conn, downloads the world and hangs up.
func FetchWorld(conn net.Conn) (*World, error) {
	c, err := NewClient(conn)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.FetchWorld()
}

type StatusService struct {
	client *Client
}

type InitClientRequest struct {
	ClientID int32
}
type InitClientResponse struct {
}

func (s *StatusService) InitClient(req *InitClientRequest, rep *InitClientResponse) error {
	log.Printf("init client %d", req.ClientID)
	s.client.waitInit <- req.ClientID
	return nil
}

type FetchWorldRequest struct {
}

type FetchWorldResponse struct {
	SX, SY, SZ int
	Spawn      [3]float32
	Blocks     string
}

type SetBlockRequest struct {
	X, Y, Z int
	ID      BlockID
}

type SetBlockResponse struct {
}

type WorldService struct {
	world *World
	exec  Executor
}

func (s *WorldService) Fetch(req *FetchWorldRequest, rep *FetchWorldResponse) error {
	s.exec(func() {
		rep.SX, rep.SY, rep.SZ = s.world.Size()
		rep.Spawn = [3]float32(s.world.Spawn)
		rep.Blocks = s.world.NetworkString()
	})
	return nil
}

func (s *WorldService) SetBlock(req *SetBlockRequest, rep *SetBlockResponse) error {
	if req.ID > MaxBlockID {
		return errors.Wrapf(ErrBadSymbol, "block id %d", req.ID)
	}
	var err error
	s.exec(func() {
		if !s.world.InRange(req.X, req.Y, req.Z) {
			err = errors.Errorf("block %d,%d,%d outside the world", req.X, req.Y, req.Z)
			return
		}
		s.world.SetBlock(req.X, req.Y, req.Z, req.ID)
	})
	return err
}

type PlayerState struct {
	Pos        [3]float32
	Pitch, Yaw float32
}

type UpdateStateRequest struct {
	ID    int32
	State PlayerState
}

type UpdateStateResponse struct {
	Players map[int32]PlayerState
}

type PlayerService struct {
	world *World
	exec  Executor
}

func (s *PlayerService) UpdateState(req *UpdateStateRequest, rep *UpdateStateResponse) error {
	rep.Players = make(map[int32]PlayerState)
	s.exec(func() {
		p, ok := s.world.Players[req.ID]
		if !ok {
			p = NewPlayer(req.ID, mgl32.Vec3{})
			s.world.AddPlayer(p)
		}
		p.Pos = mgl32.Vec3(req.State.Pos)
		p.Pitch, p.Yaw = req.State.Pitch, req.State.Yaw
		for id, other := range s.world.Players {
			if id == req.ID {
				continue
			}
			rep.Players[id] = PlayerState{Pos: [3]float32(other.Pos), Pitch: other.Pitch, Yaw: other.Yaw}
		}
	})
	return nil
}
