package browser

import "github.com/v0xg/gesturenav/internal/gesture"

// chainNode is an element and its ancestors as captured by the page script
// at mousedown: links[0] is the target, each later entry its parent. An
// empty entry is an element without an href.
type chainNode struct {
	links []string
	i     int
}

func newChain(links []string) gesture.Node {
	if len(links) == 0 {
		return nil
	}
	return chainNode{links: links}
}

func (n chainNode) Link() (string, bool) {
	href := n.links[n.i]
	return href, href != ""
}

func (n chainNode) Parent() (gesture.Node, bool) {
	if n.i+1 >= len(n.links) {
		return nil, false
	}
	return chainNode{links: n.links, i: n.i + 1}, true
}
