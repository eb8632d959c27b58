package mqtt

import (
	"encoding/json"

	"github.com/golang/glog"
)

// PortMeta is announced (retained) on id/meta while a port is online.
type PortMeta struct {
	Baudrate     int `json:"baudrate"`
	TxBufferSize int `json:"tx-buffer"`
	RxBufferSize int `json:"rx-buffer"`
}

// StatsTopic is where the statistics of a port are published.
func StatsTopic(portID string) string {
	return portID + "/stats"
}

func metaTopic(portID string) string {
	return portID + "/meta"
}

// NewPortQueue creates a Queue announcing the port with meta on every
// connection. The broker clears the announcement if the connection is lost.
func NewPortQueue(brokerURL, portID string, meta PortMeta) (*Queue, error) {
	payload, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+metaTopic(portID), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("mcu:" + portID)
	}
	q := NewQueue(opts, topicPrefix)
	q.OnConnect = func(q *Queue) {
		glog.V(1).Infof("announce port %s", portID)
		q.PubWith(metaTopic(portID), payload, 1, true)
	}
	return q, nil
}

// Withdraw clears the announcement of the port.
func (q *Queue) Withdraw(portID string) error {
	token := q.PubWith(metaTopic(portID), nil, 1, true)
	token.Wait()
	return token.Error()
}
