package doses

import "sync"

// keyedLocks serializa operaciones sobre la misma (medicamento, fecha) sin
// bloquear claves distintas entre sí. Los mutex por clave no se liberan del
// mapa: el universo de claves de una sesión personal es pequeño.
type keyedLocks struct {
	mu sync.Mutex
	m  map[Key]*sync.Mutex
}

func (k *keyedLocks) lock(key Key) (unlock func()) {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[Key]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
