package main

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/latticebook/matchcore/internal/core"
	"github.com/latticebook/matchcore/internal/engine"
)

// server is the line-protocol TCP adapter over an *engine.Engine, grounded on the accept-loop /
// per-connection / subscriber-broadcast shape of the reference TCP server this module's front-end
// was distilled from.
type server struct {
	eng      *engine.Engine
	producer *engine.Producer
	port     int
	log      *zap.SugaredLogger

	listener net.Listener
	nextID   uint64

	// prodMu serialises use of producer, which every connection goroutine shares.
	prodMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[string][]net.Conn
}

func newServer(eng *engine.Engine, port int, log *zap.SugaredLogger) *server {
	return &server{
		eng:         eng,
		producer:    eng.NewProducer(),
		port:        port,
		log:         log,
		subscribers: make(map[string][]net.Conn),
	}
}

func (s *server) start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("frontend: listen: %w", err)
	}
	s.listener = ln
	s.log.Infow("frontend listening", "port", s.port)
	go s.acceptLoop()
	return nil
}

// tradeCallback hands broadcastTrades to main so it can be composed with other trade callbacks
// (e.g. the optional Kafka publisher) before being installed via engine.SetTradeCallback.
func (s *server) tradeCallback() func([]core.Trade) {
	return s.broadcastTrades
}

func (s *server) stop() {
	if s.listener != nil {
		s.listener.Close()
	}
}

func (s *server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleClient(conn)
	}
}

func (s *server) handleClient(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply := s.processRequest(conn, scanner.Text())
		if _, err := conn.Write([]byte(reply)); err != nil {
			return
		}
	}
}

func (s *server) processRequest(conn net.Conn, line string) string {
	req, err := decodeLine(line)
	if err != nil {
		return "UNKNOWN_COMMAND\n"
	}

	s.prodMu.Lock()
	defer s.prodMu.Unlock()
	switch req.kind {
	case reqBuy, reqSell:
		return s.handleOrder(req)
	case reqCancel:
		return s.handleCancel(req)
	case reqSubscribe:
		s.subscribe(req.symbol, conn)
		return fmt.Sprintf("SUBSCRIBED %s\n", req.symbol)
	case reqGetBook:
		return s.handleGetBook(req)
	default:
		return "UNKNOWN_COMMAND\n"
	}
}

func (s *server) handleOrder(req request) string {
	symbolID := s.eng.RegisterSymbol(req.symbol, -1)
	side := core.Buy
	if req.kind == reqSell {
		side = core.Sell
	}
	id := core.OrderID(atomic.AddUint64(&s.nextID, 1))
	order := core.Order{
		ID:          id,
		ClientOrder: req.clientID,
		SymbolID:    symbolID,
		Side:        side,
		Type:        core.Limit,
		Price:       req.price,
		Quantity:    req.quantity,
	}
	s.producer.SubmitOrder(order, -1)
	return fmt.Sprintf("ORDER_ACCEPTED_ASYNC %d\n", id)
}

func (s *server) handleCancel(req request) string {
	symbolID := s.eng.RegisterSymbol(req.symbol, -1)
	s.producer.CancelOrder(symbolID, req.orderID)
	return "CANCEL_REQUEST_SENT\n"
}

func (s *server) handleGetBook(req request) string {
	symbolID := s.eng.RegisterSymbol(req.symbol, -1)
	s.producer.Flush()
	book := s.eng.GetOrderBook(symbolID)
	if book == nil {
		return fmt.Sprintf("BOOK %s BIDS ASKS\n", req.symbol)
	}

	var b []byte
	b = append(b, fmt.Sprintf("BOOK %s BIDS", req.symbol)...)
	n := 0
	for p := book.NextBidDown(core.PMax - 1); p >= 0 && n < 20; {
		b = append(b, fmt.Sprintf(" %d %d", p, book.LevelQuantity(core.Buy, p))...)
		n++
		if p == 0 {
			break
		}
		p = book.NextBidDown(p - 1)
	}
	b = append(b, " ASKS"...)
	n = 0
	for p := book.NextAsk(0); int(p) < core.PMax && n < 20; p = book.NextAsk(p + 1) {
		b = append(b, fmt.Sprintf(" %d %d", p, book.LevelQuantity(core.Sell, p))...)
		n++
	}
	b = append(b, '\n')
	return string(b)
}

func (s *server) subscribe(symbol string, conn net.Conn) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[symbol] = append(s.subscribers[symbol], conn)
}

func (s *server) broadcastTrades(trades []core.Trade) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, tr := range trades {
		symbol := s.eng.SymbolName(tr.SymbolID)
		line := fmt.Sprintf("TRADE %s %d %d\n", symbol, tr.Price, tr.Quantity)
		for _, conn := range s.subscribers[symbol] {
			conn.Write([]byte(line))
		}
	}
}
