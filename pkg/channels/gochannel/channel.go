// Package gochannel wires the in-memory watermill channel used by tests
// and single-process runs.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	runBuffer  = 1000
	testBuffer = 10
)

// CreateChannel returns an in-memory publisher and subscriber backed by a
// single GoChannel instance serving both roles.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newChannel(gochannel.Config{
		OutputChannelBuffer: runBuffer,
	}, logger)
}

// CreateTestChannel keeps messages around and blocks publishes until the
// subscriber acks, so tests observe deterministic delivery.
func CreateTestChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newChannel(gochannel.Config{
		OutputChannelBuffer:            testBuffer,
		Persistent:                     true,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}

func newChannel(config gochannel.Config, logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(config, logger)

	return pubSub, pubSub, nil
}
