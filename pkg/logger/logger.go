/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the interface every socket, engine and parser component accepts
// for lifecycle and fault reporting. Fields attach structured key/values the
// way logrus.Fields does.
type Logger interface {
	WithField(key string, val interface{}) Logger
	WithFields(f Fields) Logger

	Debug(msg string, err error, args ...interface{})
	Info(msg string, err error, args ...interface{})
	Warning(msg string, err error, args ...interface{})
	Error(msg string, err error, args ...interface{})

	SetLevel(lvl Level)
	SetOutput(w io.Writer)
}

type Fields map[string]interface{}

type logger struct {
	l *logrus.Entry
}

// New builds a Logger writing to stderr at InfoLevel by default, matching
// the teacher's default hook set (hookstderr) before any config is applied.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return &logger{l: logrus.NewEntry(l)}
}

func (lg *logger) WithField(key string, val interface{}) Logger {
	return &logger{l: lg.l.WithField(key, val)}
}

func (lg *logger) WithFields(f Fields) Logger {
	return &logger{l: lg.l.WithFields(logrus.Fields(f))}
}

func (lg *logger) log(lvl Level, msg string, err error, args ...interface{}) {
	e := lg.l
	if err != nil {
		e = e.WithError(err)
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	e.Log(lvl.logrus(), msg)
}

func (lg *logger) Debug(msg string, err error, args ...interface{}) {
	lg.log(DebugLevel, msg, err, args...)
}

func (lg *logger) Info(msg string, err error, args ...interface{}) {
	lg.log(InfoLevel, msg, err, args...)
}

func (lg *logger) Warning(msg string, err error, args ...interface{}) {
	lg.log(WarnLevel, msg, err, args...)
}

func (lg *logger) Error(msg string, err error, args ...interface{}) {
	lg.log(ErrorLevel, msg, err, args...)
}

func (lg *logger) SetLevel(lvl Level) {
	lg.l.Logger.SetLevel(lvl.logrus())
}

func (lg *logger) SetOutput(w io.Writer) {
	lg.l.Logger.SetOutput(w)
}
