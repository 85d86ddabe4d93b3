package app

import (
	ordersvc "github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/orders"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/transport/kafka"
)

func makeOrdersKafka(p *ordersvc.Processor) kafka.HandleFunc {
	return p.Handle
}
