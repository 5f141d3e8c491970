package mocks

import (
	"net"

	"github.com/stretchr/testify/mock"
)

// SecurityLayer is a testify mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	ln, _ := args.Get(0).(net.Listener)
	return ln, args.Error(1)
}
