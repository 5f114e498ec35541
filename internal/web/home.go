package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(rooms []RoomCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Friend Bucket</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Friend Bucket</span>
        <h1>Answer for your friends. Vote for the best.</h1>
        <p>Make a room, invite your people and see who knows the group best.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Create a room</h2>
          <p>Name your room, pick the number of rounds and share the link.</p>
        </div>
        <form id="createForm" class="join-form">
          <input name="name" placeholder="Room name" autocomplete="off" required/>
          <input name="maxRound" type="number" min="1" max="10" placeholder="Rounds" value="3"/>
          <label class="check"><input name="private" type="checkbox"/> Private</label>
          <button type="submit" class="primary">Create room</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Join a room</h2>
          <p>Enter the room name, plus the password if it is private.</p>
        </div>
        <form id="joinForm" class="join-form">
          <input name="name" placeholder="Room name" autocomplete="off" required/>
          <input name="password" placeholder="Password (private rooms)" autocomplete="off"/>
          <button type="submit" class="secondary">Join room</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
`)
		_, _ = io.WriteString(w, `
      <section class="panel">
        <h2>Open rooms</h2>
`)
		if len(rooms) == 0 {
			_, _ = io.WriteString(w, `        <p class="result">No rooms waiting for players right now.</p>
`)
		} else {
			_, _ = io.WriteString(w, `        <ul class="room-list">
`)
			for _, room := range rooms {
				lock := ""
				if room.Private {
					lock = ` <span class="tag">private</span>`
				}
				_, _ = io.WriteString(w, `          <li><strong>`+escape(room.Name)+`</strong>`+lock+
					` <span>`+itoa(room.Live)+` online, round `+itoa(room.CurrentRound)+` of `+itoa(room.MaxRound)+`</span></li>
`)
			}
			_, _ = io.WriteString(w, `        </ul>
`)
		}
		_, _ = io.WriteString(w, `      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");

      function authHeaders() {
        const token = localStorage.getItem("token");
        return token ? { "Authorization": "Bearer " + token, "Content-Type": "application/json" } : { "Content-Type": "application/json" };
      }

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Creating room...";
        const form = new FormData(createForm);
        const res = await fetch("/api/rooms", {
          method: "POST",
          headers: authHeaders(),
          body: JSON.stringify({
            name: form.get("name"),
            maxRound: Number(form.get("maxRound") || 0),
            private: form.get("private") === "on",
          }),
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Could not create the room.";
          return;
        }
        createResult.textContent = data.password
          ? "Room ready. Password: " + data.password
          : "Room ready. Share the name with your friends.";
      });

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        joinResult.textContent = "Joining...";
        const form = new FormData(joinForm);
        const res = await fetch("/api/rooms/connect", {
          method: "POST",
          headers: authHeaders(),
          body: JSON.stringify({ name: form.get("name"), password: form.get("password") || "" }),
        });
        const data = await res.json();
        if (!res.ok) {
          joinResult.textContent = data.error || "Could not join the room.";
          return;
        }
        joinResult.textContent = "Connected. Open " + data.socket + " to play.";
      });
    </script>
  </body>
</html>`)
		return nil
	})
}
