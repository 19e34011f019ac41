package math

func TransformFromPosition(position Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, NewVec3Zero(), NewVec3One())
	return t
}

func TransformFromPositionRotation(position Vec3, rotation Vec3) *Transform {
	t := &Transform{}
	t.SetPositionRotationScale(position, rotation, NewVec3One())
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation Vec3, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
}

func (t *Transform) isDirty() bool {
	return !t.cached ||
		t.cachedPosition != t.Position ||
		t.cachedRotation != t.Rotation ||
		t.cachedScale != t.Scale
}

// GetLocal returns scale, then rotation, then translation applied in that order.
func (t *Transform) GetLocal() Mat4 {
	if t.isDirty() {
		r := NewMat4EulerXYZ(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
		tr := NewMat4Scale(t.Scale).Mul(r)
		t.local = tr.Mul(NewMat4Translation(t.Position))
		t.cachedPosition = t.Position
		t.cachedRotation = t.Rotation
		t.cachedScale = t.Scale
		t.cached = true
	}
	return t.local
}

func (t *Transform) GetWorld() Mat4 {
	l := t.GetLocal()
	if t.Parent != nil {
		p := t.Parent.GetWorld()
		return l.Mul(p)
	}
	return l
}
