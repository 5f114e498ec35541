package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Stats(data StatsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Friend Bucket stats</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Friend Bucket</span>
        <h1>Stats</h1>
      </header>
      <section class="panel">
        <ul class="room-list">
          <li><strong>Registered users</strong> <span>`+i64toa(data.Users)+`</span></li>
          <li><strong>Rooms played</strong> <span>`+i64toa(data.Rooms)+`</span></li>
          <li><strong>Rooms in play</strong> <span>`+i64toa(data.RoomsInPlay)+`</span></li>
          <li><strong>Questions in the bucket</strong> <span>`+i64toa(data.Tasks)+`</span></li>
          <li><strong>Open rooms right now</strong> <span>`+itoa(data.OpenRooms)+`</span></li>
        </ul>
      </section>
      <p><a href="/">Back home</a></p>
    </main>
  </body>
</html>`)
		return nil
	})
}
