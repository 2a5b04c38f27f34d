/*
 * Avalanche - Debug options configuration.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/avalanche/config/configparser"
)

// Debug options land before the machine exists, so they queue up here
// and main applies them once everything is built.
type Request struct {
	Device  string
	Options []string
}

var requests []Request

// register debug option on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// Queue debug options for a device.
func setDebug(_ uint16, device string, options []config.Option) error {
	if device == "" {
		return errors.New("debug requires a device name")
	}
	request := Request{Device: strings.ToUpper(device)}
	for _, opt := range options {
		request.Options = append(request.Options, strings.ToUpper(opt.Name))
		for _, value := range opt.Value {
			request.Options = append(request.Options, strings.ToUpper(*value))
		}
	}
	requests = append(requests, request)
	return nil
}

// Queued debug requests from the configuration file.
func Requests() []Request {
	return requests
}
