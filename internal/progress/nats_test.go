package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	. "github.com/smartystreets/goconvey/convey"
)

func startTestNATSServer(t *testing.T) (*server.Server, string) {
	t.Helper()
	opts := &server.Options{Port: -1}
	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded nats server: %v", err)
	}
	ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server never became ready")
	}
	return ns, ns.ClientURL()
}

func TestNATSReporterPublishesProgress(t *testing.T) {
	Convey("Given an embedded NATS server and a subscriber", t, func() {
		ns, url := startTestNATSServer(t)
		defer ns.Shutdown()

		sub, err := nats.Connect(url)
		So(err, ShouldBeNil)
		defer sub.Close()

		msgs := make(chan *nats.Msg, 4)
		_, err = sub.ChanSubscribe("matcher.progress", msgs)
		So(err, ShouldBeNil)

		Convey("Reporter publishes a well-formed Event", func() {
			reporter, err := NewNATSReporter(url, "matcher.progress")
			So(err, ShouldBeNil)
			defer reporter.Close()

			report := reporter.Reporter("autoMatchClasses")
			report(3, 10)
			So(sub.Flush(), ShouldBeNil)

			select {
			case msg := <-msgs:
				var ev Event
				So(json.Unmarshal(msg.Data, &ev), ShouldBeNil)
				So(ev.Pass, ShouldEqual, "autoMatchClasses")
				So(ev.Done, ShouldEqual, 3)
				So(ev.Total, ShouldEqual, 10)
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for progress event")
			}
		})
	})
}
