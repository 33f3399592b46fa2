package orderbook

import "github.com/latticebook/matchcore/internal/core"

// Match runs incoming against the opposite side of book in price-time priority, appending trades
// to tradeBuf and returning the (possibly grown) slice. If incoming is a resting-eligible limit
// order with quantity left over, it is inserted into the book before returning; a market order's
// leftover quantity is dropped, never rested. seq is the running per-shard trade sequence counter
// and is incremented once per emitted trade.
func Match(book *Book, incoming core.Order, tradeBuf []core.Trade, seq *uint64) []core.Trade {
	if incoming.Side == core.Buy {
		return matchBuy(book, incoming, tradeBuf, seq)
	}
	return matchSell(book, incoming, tradeBuf, seq)
}

func matchBuy(book *Book, incoming core.Order, tradeBuf []core.Trade, seq *uint64) []core.Trade {
	limitPrice := incoming.EffectivePrice()

	p := book.NextAsk(book.BestAsk())
	for int(p) < core.PMax && incoming.Quantity > 0 {
		if incoming.Type == core.Limit && p > limitPrice {
			break
		}

		idx := book.head(core.Sell, p)
		for idx != -1 {
			n := book.node(idx)
			if !n.active {
				next := n.next
				book.setHead(core.Sell, p, next)
				book.freeNode(idx)
				idx = next
				continue
			}

			q := n.order.Quantity
			if incoming.Quantity < q {
				q = incoming.Quantity
			}

			*seq++
			tradeBuf = append(tradeBuf, core.Trade{
				SymbolID: book.SymbolID,
				Price:    p,
				Quantity: q,
				Maker:    n.order.ID,
				Taker:    incoming.ID,
				Seq:      *seq,
			})

			n.order.Quantity -= q
			incoming.Quantity -= q

			if n.order.Quantity == 0 {
				next := n.next
				book.setHead(core.Sell, p, next)
				delete(book.idIndex, n.order.ID)
				book.freeNode(idx)
				idx = next
			}
			if incoming.Quantity == 0 {
				return tradeBuf
			}
		}

		p = book.NextAsk(p + 1)
	}

	if incoming.Type == core.Limit && incoming.Quantity > 0 {
		book.AddOrder(incoming)
	}
	return tradeBuf
}

func matchSell(book *Book, incoming core.Order, tradeBuf []core.Trade, seq *uint64) []core.Trade {
	limitPrice := incoming.EffectivePrice()

	p := book.NextBidDown(book.BestBid())
	for p >= 0 && incoming.Quantity > 0 {
		if incoming.Type == core.Limit && p < limitPrice {
			break
		}

		idx := book.head(core.Buy, p)
		for idx != -1 {
			n := book.node(idx)
			if !n.active {
				next := n.next
				book.setHead(core.Buy, p, next)
				book.freeNode(idx)
				idx = next
				continue
			}

			q := n.order.Quantity
			if incoming.Quantity < q {
				q = incoming.Quantity
			}

			*seq++
			tradeBuf = append(tradeBuf, core.Trade{
				SymbolID: book.SymbolID,
				Price:    p,
				Quantity: q,
				Maker:    n.order.ID,
				Taker:    incoming.ID,
				Seq:      *seq,
			})

			n.order.Quantity -= q
			incoming.Quantity -= q

			if n.order.Quantity == 0 {
				next := n.next
				book.setHead(core.Buy, p, next)
				delete(book.idIndex, n.order.ID)
				book.freeNode(idx)
				idx = next
			}
			if incoming.Quantity == 0 {
				return tradeBuf
			}
		}

		if p == 0 {
			break
		}
		p = book.NextBidDown(p - 1)
	}

	if incoming.Type == core.Limit && incoming.Quantity > 0 {
		book.AddOrder(incoming)
	}
	return tradeBuf
}
