package regmap

// Request is one register-bus transaction carried across the bridge:
// a write strobe/address/data, or a read flag.
type Request struct {
	Read        bool
	Addr        uint32
	WData       uint32
	ByteStrobes uint8
}

// Response carries a read's result back across the bridge.
type Response struct {
	RData uint32
}

// Bridge is the cross-domain register request/response bridge: a
// request crosses a pulse synchroniser from the host's input domain
// to the core's output domain, is applied to the register map there,
// and a response pulse carries rdata back. Responses are FIFO-ordered
// per P10; the bridge never issues a new request before the previous
// response has been received.
type Bridge struct {
	Map *Map

	stages int // synchroniser depth (configurable, default 2)

	inFlight    bool
	reqStages   []*Request
	respStages  []*Response
	respPending []Response // in-order queue of responses not yet delivered
}

// NewBridge builds a bridge over the given register map with a
// 2-flop synchroniser by default.
func NewBridge(m *Map, stages int) *Bridge {
	if stages < 1 {
		stages = 2
	}
	return &Bridge{Map: m, stages: stages, reqStages: make([]*Request, stages), respStages: make([]*Response, stages)}
}

// Submit accepts a new request from the host domain. It is refused
// (returns false) while a previous request's response has not yet
// been received, per spec section 4.9.
func (b *Bridge) Submit(req Request) bool {
	if b.inFlight {
		return false
	}
	b.inFlight = true
	b.reqStages[0] = &req
	return true
}

// Step advances the synchroniser pipeline by one output-domain cycle:
// shifting the request through its stages, applying it to the
// register map once it emerges, and shifting the response back
// through the reverse pipeline.
func (b *Bridge) Step() {
	// advance the request pipeline
	reqEmerged := b.reqStages[b.stages-1]
	for i := b.stages - 1; i > 0; i-- {
		b.reqStages[i] = b.reqStages[i-1]
	}
	b.reqStages[0] = nil

	// advance the response pipeline before injecting this cycle's
	// newly-applied request's response, so a response takes the full
	// synchroniser depth to reach the host domain.
	respEmerged := b.respStages[b.stages-1]
	for i := b.stages - 1; i > 0; i-- {
		b.respStages[i] = b.respStages[i-1]
	}
	b.respStages[0] = nil

	if reqEmerged != nil {
		var resp Response
		if reqEmerged.Read {
			data, _ := b.Map.Read(reqEmerged.Addr)
			resp.RData = data
		} else {
			b.Map.Write(reqEmerged.Addr, reqEmerged.WData, reqEmerged.ByteStrobes)
		}
		b.respStages[0] = &resp
	}

	if respEmerged != nil {
		b.respPending = append(b.respPending, *respEmerged)
		b.inFlight = false
	}
}

// ReceiveResponse pops the oldest completed response, if any,
// preserving FIFO order across submissions.
func (b *Bridge) ReceiveResponse() (Response, bool) {
	if len(b.respPending) == 0 {
		return Response{}, false
	}
	resp := b.respPending[0]
	b.respPending = b.respPending[1:]
	return resp, true
}
