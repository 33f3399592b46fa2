// Command cmd/frontend is a line-oriented TCP adapter over the programmatic engine API: it is not
// part of the core (internal/engine, internal/orderbook) and exists to demonstrate the optional
// external interface described alongside the programmatic surface.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/latticebook/matchcore/internal/core"
)

// Sentinel decode errors, in a dispatch-by-first-token + sentinel-error idiom retargeted here to
// whitespace-tokenised text lines rather than a binary frame format.
var (
	ErrEmptyLine       = errors.New("frontend: empty line")
	ErrUnknownCommand  = errors.New("frontend: unknown command")
	ErrMalformedFields = errors.New("frontend: malformed fields")
)

// requestKind is a message-type switch, one variant per line verb.
type requestKind uint8

const (
	reqBuy requestKind = iota
	reqSell
	reqCancel
	reqSubscribe
	reqGetBook
)

type request struct {
	kind     requestKind
	symbol   string
	quantity core.Quantity
	price    core.Price
	clientID uint64
	orderID  core.OrderID
}

// decodeLine parses one line of the text protocol, dispatching on its first token.
func decodeLine(line string) (request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return request{}, ErrEmptyLine
	}

	switch strings.ToUpper(fields[0]) {
	case "BUY", "SELL":
		return decodeOrder(fields)
	case "CANCEL":
		return decodeCancel(fields)
	case "SUBSCRIBE":
		return decodeSubscribe(fields)
	case "GET_BOOK":
		return decodeGetBook(fields)
	default:
		return request{}, ErrUnknownCommand
	}
}

func decodeOrder(fields []string) (request, error) {
	if len(fields) < 4 {
		return request{}, ErrMalformedFields
	}
	qty, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return request{}, fmt.Errorf("%w: quantity: %v", ErrMalformedFields, err)
	}
	px, err := strconv.ParseInt(fields[3], 10, 32)
	if err != nil {
		return request{}, fmt.Errorf("%w: price: %v", ErrMalformedFields, err)
	}
	var clientID uint64
	if len(fields) >= 5 {
		clientID, err = strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return request{}, fmt.Errorf("%w: clientId: %v", ErrMalformedFields, err)
		}
	}
	kind := reqBuy
	if strings.EqualFold(fields[0], "SELL") {
		kind = reqSell
	}
	return request{
		kind:     kind,
		symbol:   fields[1],
		quantity: core.Quantity(qty),
		price:    core.Price(px),
		clientID: clientID,
	}, nil
}

func decodeCancel(fields []string) (request, error) {
	if len(fields) < 3 {
		return request{}, ErrMalformedFields
	}
	id, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return request{}, fmt.Errorf("%w: orderId: %v", ErrMalformedFields, err)
	}
	return request{kind: reqCancel, symbol: fields[1], orderID: core.OrderID(id)}, nil
}

func decodeSubscribe(fields []string) (request, error) {
	if len(fields) < 2 {
		return request{}, ErrMalformedFields
	}
	return request{kind: reqSubscribe, symbol: fields[1]}, nil
}

func decodeGetBook(fields []string) (request, error) {
	if len(fields) < 2 {
		return request{}, ErrMalformedFields
	}
	return request{kind: reqGetBook, symbol: fields[1]}, nil
}
