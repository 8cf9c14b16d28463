package model

// Kind of document node.
// ENUM(doc, page, header, content, footer, paragraph, heading, placeholder, text)
type NodeKind int

// Where transform came from.
// ENUM(user, reflow, dedup, history, load)
type Origin int
