// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dispatch applies client events to classroom state.

A Dispatcher owns the session registry, the active poll, the poll history
and the chat log. Run drains a single queue; connection goroutines reach
it through Submit and Disconnect, countdown ticks through the poll
engine's notify hook, and GET /status through Status. Nothing else
touches the state, so handlers need no locks.

# Authorization

Roles are claimed at join and trusted from then on:

  - teacher:create-poll, teacher:remove-student: teachers only
  - student:submit-vote: students only
  - chat: any joined session

Events that fail a check are dropped and logged at debug level. The
sender gets no error event.

# Poll Closing

A poll closes on whichever happens first:

  - the countdown reaches zero and the next tick fires
  - the number of distinct voters reaches the number of joined students

Closing broadcasts server:poll-ended with the final tally and then
server:history-update. Creating a poll while one is active discards the
old one without archiving it.
*/
package dispatch
