/*
Avalanche - Virtual network backend.

	Copyright (c) 2025, Richard Cornwell

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

	Packets sent by one client are offered to every other client on the
	same hub. A client that reports it can not receive just drops the
	frame; nothing is queued or retried.
*/

package vnet

// Client is one station attached to a hub.
type Client struct {
	hub        *Hub
	name       string
	receive    func(buf []byte)
	canReceive func() bool
}

// Hub crosses packets between its clients.
type Hub struct {
	clients []*Client
}

// Create a new hub.
func NewHub() *Hub {
	return &Hub{}
}

// Attach a new client to the hub. receive is called with each frame
// delivered to the client; canReceive gates delivery and may be nil.
func (hub *Hub) NewClient(name string, receive func(buf []byte), canReceive func() bool) *Client {
	client := &Client{hub: hub, name: name, receive: receive, canReceive: canReceive}
	hub.clients = append(hub.clients, client)
	return client
}

// Name of the client, for diagnostics.
func (client *Client) Name() string {
	return client.name
}

// Send a frame from this client to every other client on the hub.
func (client *Client) Send(buf []byte) {
	for _, peer := range client.hub.clients {
		if peer == client {
			continue
		}
		if peer.canReceive != nil && !peer.canReceive() {
			continue
		}
		if peer.receive != nil {
			frame := make([]byte, len(buf))
			copy(frame, buf)
			peer.receive(frame)
		}
	}
}
