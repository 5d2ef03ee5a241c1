// Package classify turns external signals into ordered spawn proposals.
//
// A static rule table is matched against the signal's task tag and intent
// text. Each firing rule yields one proposal whose priority combines match
// specificity, the recency of the rule's last firing, and the current
// energy level; more specific matches outrank generic ones. A signal that
// matches nothing yields exactly one generic fallback proposal.
//
// Classification is deterministic given identical inputs and a fixed seed;
// production calls draw a fresh seed per invocation.
package classify
