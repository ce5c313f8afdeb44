package io

import "sync"

type Producer interface {
	Produce(work chan<- *WorkUnit, results chan<- *Result, wg *sync.WaitGroup)
}

type Consumer interface {
	Consume(work <-chan *WorkUnit, results chan<- *Result, wg *sync.WaitGroup)
}
