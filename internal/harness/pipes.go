// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package harness

import (
	"code.hybscloud.com/qbench"
	"code.hybscloud.com/spin"
	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// channelPipe drives a qbench channel. extra holds the Sender made by a
// leading Clone, kept open for the whole run.
type channelPipe struct {
	tx    *qbench.Sender[uint64]
	extra *qbench.Sender[uint64]
	rx    *qbench.Receiver[uint64]
}

func (p *channelPipe) Send(v uint64) {
	if err := p.tx.Send(v); err != nil {
		panic("harness: " + err.Error())
	}
}

func (p *channelPipe) Recv() uint64 {
	v, err := p.rx.Recv()
	if err != nil {
		panic("harness: " + err.Error())
	}
	return v
}

func (p *channelPipe) Close() {
	p.tx.Close()
	if p.extra != nil {
		p.extra.Close()
	}
	p.rx.Close()
}

// queuePipe drives a raw queue; the consumer spins on an empty queue.
type queuePipe struct {
	q qbench.Queue[uint64]
}

func (p *queuePipe) Send(v uint64) {
	p.q.Enqueue(v)
}

func (p *queuePipe) Recv() uint64 {
	sw := spin.Wait{}
	for {
		v, err := p.q.Dequeue()
		if err == nil {
			return v
		}
		sw.Once()
	}
}

func (p *queuePipe) Close() {}

// boundedQueue is a queue whose Enqueue fails when full.
type boundedQueue interface {
	Enqueue(elem uint64) error
	Dequeue() (uint64, error)
}

// ringPipe drives a bounded ring; both ends spin.
type ringPipe struct {
	r boundedQueue
}

func (p *ringPipe) Send(v uint64) {
	sw := spin.Wait{}
	for p.r.Enqueue(v) != nil {
		sw.Once()
	}
}

func (p *ringPipe) Recv() uint64 {
	sw := spin.Wait{}
	for {
		v, err := p.r.Dequeue()
		if err == nil {
			return v
		}
		sw.Once()
	}
}

func (p *ringPipe) Close() {}

// shardedPipe drives a go-lock-free-ring sharded ring with one producer.
type shardedPipe struct {
	r *ring.ShardedRing
}

func (p *shardedPipe) Send(v uint64) {
	sw := spin.Wait{}
	for !p.r.Write(0, v) {
		sw.Once()
	}
}

func (p *shardedPipe) Recv() uint64 {
	sw := spin.Wait{}
	for {
		if v, ok := p.r.TryRead(); ok {
			return v.(uint64)
		}
		sw.Once()
	}
}

func (p *shardedPipe) Close() {}

// goChanPipe drives a buffered Go channel.
type goChanPipe struct {
	ch chan uint64
}

func (p *goChanPipe) Send(v uint64) {
	p.ch <- v
}

func (p *goChanPipe) Recv() uint64 {
	return <-p.ch
}

func (p *goChanPipe) Close() {
	close(p.ch)
}
